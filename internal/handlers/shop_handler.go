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

// ShopHandler handles HTTP requests for shops.
type ShopHandler struct {
	service  *services.ShopService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(service *services.ShopService, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the shop routes. Reads are public; mutations
// require authentication.
func (h *ShopHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	shops := router.Group("/shops")
	shops.Get("/", h.HandleListShops)
	shops.Get("/:id", h.HandleGetShop)
	shops.Post("/", authRequired, h.HandleCreateShop)
	shops.Put("/:id", authRequired, h.HandleUpdateShop)
	shops.Patch("/:id/status", authRequired, h.HandleUpdateShopStatus)
	shops.Patch("/:id/audit", authRequired, h.HandleUpdateAuditStatus)
	shops.Delete("/:id", authRequired, h.HandleDeleteShop)
}

// HandleCreateShop opens a shop application for the authenticated user.
func (h *ShopHandler) HandleCreateShop(c *fiber.Ctx) error {
	var shop models.Shop
	if err := c.BodyParser(&shop); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(&shop); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "error": err.Error()})
	}

	actor := actorFromCtx(c)
	if err := h.service.CreateShop(actor.UserID, &shop); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Shop created successfully",
		"shop_id": shop.ID,
	})
}

// HandleGetShop returns a shop by ID.
func (h *ShopHandler) HandleGetShop(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid shop id"})
	}
	shop, err := h.service.GetShop(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(shop)
}

// HandleListShops returns a page of shops matching the query filters.
func (h *ShopHandler) HandleListShops(c *fiber.Ctx) error {
	var filter repositories.ShopFilter
	if v := c.Query("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Status = &n
		}
	}
	if v := c.Query("audit_status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.AuditStatus = &n
		}
	}
	filter.Name = c.Query("name")
	if v := c.Query("owner_id"); v != "" {
		if id, err := models.ParseID(v); err == nil {
			filter.OwnerID = id
		}
	}

	page, limit := paginationParams(c)
	shops, total, err := h.service.ListShops(filter, page, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"data":       shops,
		"pagination": pagination(total, page, limit),
	})
}

// HandleUpdateShop applies profile changes to a shop.
func (h *ShopHandler) HandleUpdateShop(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid shop id"})
	}
	var updates models.Shop
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "error": err.Error()})
	}

	if err := h.service.UpdateShop(actorFromCtx(c), id, &updates); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Shop updated successfully"})
}

// HandleUpdateShopStatus opens or closes a shop.
func (h *ShopHandler) HandleUpdateShopStatus(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid shop id"})
	}
	var req struct {
		Status int `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.service.UpdateShopStatus(actorFromCtx(c), id, req.Status); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Shop status updated successfully"})
}

// HandleUpdateAuditStatus moderates a shop application. Admin only.
func (h *ShopHandler) HandleUpdateAuditStatus(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid shop id"})
	}
	var req struct {
		AuditStatus int `json:"audit_status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.service.UpdateAuditStatus(actorFromCtx(c), id, req.AuditStatus); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Shop audit status updated successfully"})
}

// HandleDeleteShop removes a shop. Admin only.
func (h *ShopHandler) HandleDeleteShop(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid shop id"})
	}
	if err := h.service.DeleteShop(actorFromCtx(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Shop deleted successfully"})
}
