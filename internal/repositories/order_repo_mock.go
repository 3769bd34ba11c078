package repositories

import (
	"sort"
	"sync"
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It pairs with a MockProductRepository so order creation and stock
// decrement stay atomic: a failed decrement rolls back the order and every
// decrement already applied.
type MockOrderRepository struct {
	mu         sync.Mutex
	orders     map[models.ID]models.Order
	products   *MockProductRepository
	nextID     models.ID
	nextItemID models.ID
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:     make(map[models.ID]models.Order),
		products:   products,
		nextID:     1,
		nextItemID: 1,
	}
}

// CreateWithItems persists the order and applies all stock decrements as one
// unit, undoing applied decrements if a later one fails.
func (r *MockOrderRepository) CreateWithItems(order *models.Order, decrements []StockDecrement) error {
	for i, d := range decrements {
		if err := r.products.decrementIfAvailable(d.ProductID, d.Quantity); err != nil {
			for _, applied := range decrements[:i] {
				r.products.increment(applied.ProductID, applied.Quantity)
			}
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = r.nextItemID
		r.nextItemID++
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByIDForUser returns an order scoped to the owning user.
func (r *MockOrderRepository) GetByIDForUser(id, userID models.ID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, apperrors.NotFound("order", id.String())
	}
	return &o, nil
}

// ListByUser returns a page of the user's orders, newest first.
func (r *MockOrderRepository) ListByUser(userID models.ID, filter OrderFilter, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.ShopID != 0 && o.ShopID != filter.ShopID {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Update modifies an existing order's own fields.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return apperrors.NotFound("order", order.ID.String())
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}
