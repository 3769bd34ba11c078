package repositories

import (
	"errors"
	"fmt"
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *GORMProductRepository) GetByID(id models.ID) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id.String())
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// Update saves changes to an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", product.ID.String())
	}
	return nil
}

// Delete removes a product by ID.
func (r *GORMProductRepository) Delete(id models.ID) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", id.String())
	}
	return nil
}

// List returns a page of products matching the filter plus the total count.
func (r *GORMProductRepository) List(filter ProductFilter, page, limit int) ([]models.Product, int64, error) {
	q := r.db.Model(&models.Product{})
	if filter.ShopID != 0 {
		q = q.Where("shop_id = ?", filter.ShopID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.MinPrice != nil {
		q = q.Where("selling_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("selling_price <= ?", *filter.MaxPrice)
	}
	if filter.InPromotion {
		now := time.Now()
		q = q.Where("promotion_start <= ? AND promotion_end >= ?", now, now)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// AdjustStock applies a signed stock delta. The guard clause makes the check
// and the write one statement, so the stock invariant holds under
// concurrent adjustments.
func (r *GORMProductRepository) AdjustStock(id models.ID, delta int) (*models.Product, error) {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the product does not exist or the delta would go negative.
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, apperrors.Conflictf("insufficient stock for product %s", id)
	}
	return r.GetByID(id)
}

// ListCategories returns all categories ordered for display.
func (r *GORMProductRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("sort, id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
