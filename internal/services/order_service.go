package services

import (
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"
	"mall/internal/repositories"
	"mall/pkg/orderno"
	"mall/pkg/rabbitmq"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderEventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client.
type OrderEventPublisher interface {
	PublishOrderCreated(event rabbitmq.OrderCreatedEvent) error
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID models.ID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for placing an order against one shop.
type CreateOrderRequest struct {
	ShopID models.ID          `json:"shop_id" validate:"required"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderService orchestrates the order workflow: validation, pricing and
// atomic persistence with stock decrement.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   OrderEventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are emitted.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher OrderEventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateOrder places an order for the user against req.ShopID.
//
// Validation and pricing happen first, without mutating anything: every
// referenced product must exist, belong to the requested shop and have
// sufficient stock; line totals use the product's current selling price, not
// anything the caller sent. Persistence is then a single transaction that
// inserts the order with its item snapshots and conditionally decrements
// stock per product; the stock check is repeated inside that transaction, so
// a concurrent order that consumed the stock first causes a conflict and a
// full rollback rather than a negative stock value. A failed call leaves no
// partial state and is safe for the caller to retry.
func (s *OrderService) CreateOrder(userID models.ID, req CreateOrderRequest) (*models.Order, error) {
	if req.ShopID == 0 || len(req.Items) == 0 {
		return nil, apperrors.Validationf("order must name a shop and at least one item")
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(req.Items))
	decrements := make([]repositories.StockDecrement, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperrors.Validationf("quantity must be at least 1 for product %s", item.ProductID)
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.ShopID != req.ShopID {
			return nil, apperrors.Validationf("order contains items from another shop")
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.Conflictf("insufficient stock for product %s", product.Name)
		}

		totalAmount += product.SellingPrice * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.SellingPrice,
			Quantity:     item.Quantity,
		})
		decrements = append(decrements, repositories.StockDecrement{
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	order := &models.Order{
		OrderNo:     orderno.Generate(),
		ShopID:      req.ShopID,
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      models.OrderAwaitingPayment,
		Items:       items,
	}

	if err := s.orderRepo.CreateWithItems(order, decrements); err != nil {
		return nil, err
	}

	s.publishCreated(order)

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo),
		zap.String("user_id", userID.String()),
		zap.Float64("total_amount", order.TotalAmount))
	return order, nil
}

// publishCreated emits the order-created event, best effort. The order is
// already committed; a publish failure is logged and not surfaced.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderCreatedEvent{
		EventID:     uuid.New().String(),
		OrderID:     order.ID.String(),
		OrderNo:     order.OrderNo,
		ShopID:      order.ShopID.String(),
		UserID:      order.UserID.String(),
		TotalAmount: order.TotalAmount,
		Status:      int(order.Status),
		Timestamp:   time.Now(),
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		s.logger.Warn("failed to publish order created event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// GetOrder returns the user's order with its items.
func (s *OrderService) GetOrder(userID, orderID models.ID) (*models.Order, error) {
	return s.orderRepo.GetByIDForUser(orderID, userID)
}

// ListOrders returns a page of the user's orders, newest first.
func (s *OrderService) ListOrders(userID models.ID, filter repositories.OrderFilter, page, limit int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(userID, filter, page, limit)
}

// UpdateOrderStatus moves the user's order to a new status, stamping the
// matching timestamp: payment time on awaiting_shipment, shipping time on
// awaiting_receipt, completion time on completed. Repeating a transition
// overwrites the stamp. Allowed successors come from the transition table in
// models; there is no other predecessor validation.
func (s *OrderService) UpdateOrderStatus(userID, orderID models.ID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validationf("invalid order status: %d", status)
	}

	order, err := s.orderRepo.GetByIDForUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperrors.Validationf("order cannot move from status %d to %d", order.Status, status)
	}

	now := time.Now()
	switch status {
	case models.OrderAwaitingShipment:
		order.PaymentTime = &now
	case models.OrderAwaitingReceipt:
		order.ShippingTime = &now
	case models.OrderCompleted:
		order.CompleteTime = &now
	}
	order.Status = status

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder soft-deletes the user's order by cancelling it. Only an order
// still awaiting payment can be deleted; the row itself is kept.
func (s *OrderService) DeleteOrder(userID, orderID models.ID) error {
	order, err := s.orderRepo.GetByIDForUser(orderID, userID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderAwaitingPayment {
		return apperrors.Validationf("only an unpaid order can be deleted")
	}
	order.Status = models.OrderCancelled
	return s.orderRepo.Update(order)
}
