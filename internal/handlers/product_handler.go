package handlers

import (
	"strconv"

	"mall/internal/models"
	"mall/internal/repositories"
	"mall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product and category routes. Reads are
// public; mutations require authentication.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", authRequired, h.HandleCreateProduct)
	products.Put("/:id", authRequired, h.HandleUpdateProduct)
	products.Delete("/:id", authRequired, h.HandleDeleteProduct)
	products.Patch("/:id/stock", authRequired, h.HandleAdjustStock)

	router.Get("/categories", h.HandleListCategories)
}

// HandleCreateProduct adds a product to a shop the caller manages.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "error": err.Error()})
	}

	if err := h.service.CreateProduct(actorFromCtx(c), &product); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProduct returns a product by ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleListProducts returns a page of products matching the query filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var filter repositories.ProductFilter
	if v := c.Query("shop_id"); v != "" {
		if id, err := models.ParseID(v); err == nil {
			filter.ShopID = id
		}
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := models.ParseID(v); err == nil {
			filter.CategoryID = id
		}
	}
	if v := c.Query("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Status = &n
		}
	}
	filter.Name = c.Query("name")
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	filter.InPromotion = c.Query("in_promotion") == "true"

	page, limit := paginationParams(c)
	products, total, err := h.service.ListProducts(filter, page, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"data":       products,
		"pagination": pagination(total, page, limit),
	})
}

// HandleUpdateProduct applies catalog changes to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	var updates models.Product
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	product, err := h.service.UpdateProduct(actorFromCtx(c), id, &updates)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	if err := h.service.DeleteProduct(actorFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// AdjustStockRequest is a signed manual stock adjustment.
type AdjustStockRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// HandleAdjustStock applies a manual stock adjustment.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}
	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity is required"})
	}

	product, err := h.service.AdjustStock(actorFromCtx(c), id, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleListCategories returns all categories.
func (h *ProductHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(categories)
}
