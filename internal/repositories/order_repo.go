package repositories

import (
	"mall/internal/models"
)

// StockDecrement is one product decrement applied inside an order-creation
// transaction.
type StockDecrement struct {
	ProductID models.ID
	Quantity  int
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status *models.OrderStatus
	ShopID models.ID
}

// OrderRepository defines the interface for order data access.
//
// CreateWithItems persists the order with its line items and applies every
// stock decrement as one atomic unit: if any decrement's precondition
// (stock >= quantity) fails, nothing is persisted and a ConflictError is
// returned. Lookups are keyed by id plus owning user so a caller can never
// observe another user's order.
type OrderRepository interface {
	CreateWithItems(order *models.Order, decrements []StockDecrement) error
	GetByIDForUser(id, userID models.ID) (*models.Order, error)
	ListByUser(userID models.ID, filter OrderFilter, page, limit int) ([]models.Order, int64, error)
	Update(order *models.Order) error
}
