package repositories

import (
	"strings"
	"sync"
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Stock mutations go through decrementIfAvailable so the check and the write
// happen under one lock, mirroring the conditional update the GORM
// implementation relies on.
type MockProductRepository struct {
	mu         sync.RWMutex
	products   map[models.ID]models.Product
	categories map[models.ID]models.Category
	nextID     models.ID
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[models.ID]models.Product),
		categories: make(map[models.ID]models.Category),
		nextID:     1,
	}
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// GetByID returns a product by ID.
func (r *MockProductRepository) GetByID(id models.ID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id.String())
	}
	return &p, nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return apperrors.NotFound("product", product.ID.String())
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by ID.
func (r *MockProductRepository) Delete(id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id.String())
	}
	delete(r.products, id)
	return nil
}

// List returns a page of products matching the filter plus the total count.
func (r *MockProductRepository) List(filter ProductFilter, page, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.ShopID != 0 && p.ShopID != filter.ShopID {
			continue
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Name != "" && !strings.Contains(p.Name, filter.Name) {
			continue
		}
		if filter.MinPrice != nil && p.SellingPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.SellingPrice > *filter.MaxPrice {
			continue
		}
		if filter.InPromotion && !p.InPromotion(now) {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// AdjustStock applies a signed stock delta, refusing any delta that would
// take stock below zero.
func (r *MockProductRepository) AdjustStock(id models.ID, delta int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id.String())
	}
	if p.Stock+delta < 0 {
		return nil, apperrors.Conflictf("insufficient stock for product %s", id)
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return &p, nil
}

// decrementIfAvailable atomically checks and decrements stock for one
// product. Used by MockOrderRepository to simulate the database's serialized
// conditional update.
func (r *MockProductRepository) decrementIfAvailable(id models.ID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product", id.String())
	}
	if p.Stock < quantity {
		return apperrors.Conflictf("insufficient stock for product %s", id)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

// increment restores stock when a simulated transaction rolls back.
func (r *MockProductRepository) increment(id models.ID, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.products[id]; ok {
		p.Stock += quantity
		r.products[id] = p
	}
}

// AddCategory seeds a category.
func (r *MockProductRepository) AddCategory(category *models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == 0 {
		category.ID = models.ID(len(r.categories) + 1)
	}
	r.categories[category.ID] = *category
}

// ListCategories returns all categories.
func (r *MockProductRepository) ListCategories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	return categories, nil
}
