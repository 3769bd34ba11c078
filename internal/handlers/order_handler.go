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

// OrderHandler handles HTTP requests for orders. Every route requires an
// authenticated user; the service scopes all lookups to that user.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orders := router.Group("/orders", authRequired)
	orders.Post("/", h.HandleCreateOrder)
	orders.Get("/", h.HandleListOrders)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orders.Delete("/:id", h.HandleDeleteOrder)
}

// HandleCreateOrder places an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order data"})
	}

	actor := actorFromCtx(c)
	order, err := h.service.CreateOrder(actor.UserID, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders returns a page of the caller's orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	var filter repositories.OrderFilter
	if v := c.Query("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			status := models.OrderStatus(n)
			filter.Status = &status
		}
	}
	if v := c.Query("shop_id"); v != "" {
		if id, err := models.ParseID(v); err == nil {
			filter.ShopID = id
		}
	}

	actor := actorFromCtx(c)
	page, limit := paginationParams(c)
	orders, total, err := h.service.ListOrders(actor.UserID, filter, page, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"data":       orders,
		"pagination": pagination(total, page, limit),
	})
}

// HandleGetOrder returns one of the caller's orders with its items.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}
	actor := actorFromCtx(c)
	order, err := h.service.GetOrder(actor.UserID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(order)
}

// UpdateOrderStatusRequest is the request body for a status transition.
type UpdateOrderStatusRequest struct {
	Status *int `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves one of the caller's orders to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "status is required"})
	}

	actor := actorFromCtx(c)
	order, err := h.service.UpdateOrderStatus(actor.UserID, id, models.OrderStatus(*req.Status))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder cancels one of the caller's unpaid orders.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}
	actor := actorFromCtx(c)
	if err := h.service.DeleteOrder(actor.UserID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}
