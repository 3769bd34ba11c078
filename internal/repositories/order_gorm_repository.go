package repositories

import (
	"errors"
	"fmt"

	"mall/internal/apperrors"
	"mall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateWithItems inserts the order with its items and decrements stock for
// every referenced product inside one transaction. Each decrement re-checks
// availability in its WHERE clause; the database serializes the row update,
// so a decrement whose precondition was consumed by a concurrent order
// affects zero rows and rolls the whole transaction back.
func (r *GORMOrderRepository) CreateWithItems(order *models.Order, decrements []StockDecrement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, d := range decrements {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", d.ProductID, d.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", d.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", d.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.Conflictf("insufficient stock for product %s", d.ProductID)
			}
		}
		return nil
	})
}

// GetByIDForUser retrieves an order with its items, scoped to the owning
// user. A mismatched user sees not-found, the same as a missing order.
func (r *GORMOrderRepository) GetByIDForUser(id, userID models.ID) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", id.String())
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns a page of the user's orders, newest first, with items.
func (r *GORMOrderRepository) ListByUser(userID models.ID, filter OrderFilter, page, limit int) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.ShopID != 0 {
		q = q.Where("shop_id = ?", filter.ShopID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := q.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Update saves the order's own columns. Items are immutable snapshots and
// are never written back.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit(clause.Associations).Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("order", order.ID.String())
	}
	return nil
}
