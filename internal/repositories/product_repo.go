package repositories

import (
	"mall/internal/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	ShopID      models.ID
	CategoryID  models.ID
	Status      *int
	Name        string
	MinPrice    *float64
	MaxPrice    *float64
	InPromotion bool
}

// ProductRepository defines the interface for product and category data
// access. AdjustStock applies a signed delta with a conditional update so
// stock can never be driven below zero, regardless of concurrent callers.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id models.ID) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id models.ID) error
	List(filter ProductFilter, page, limit int) ([]models.Product, int64, error)
	AdjustStock(id models.ID, delta int) (*models.Product, error)
	ListCategories() ([]models.Category, error)
}
