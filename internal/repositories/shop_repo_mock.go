package repositories

import (
	"strings"
	"sync"
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"
)

// MockShopRepository is an in-memory implementation of ShopRepository.
type MockShopRepository struct {
	mu     sync.RWMutex
	shops  map[models.ID]models.Shop
	nextID models.ID
}

// NewMockShopRepository creates a new instance of MockShopRepository.
func NewMockShopRepository() *MockShopRepository {
	return &MockShopRepository{shops: make(map[models.ID]models.Shop), nextID: 1}
}

// Create adds a new shop.
func (r *MockShopRepository) Create(shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shop.ID == 0 {
		shop.ID = r.nextID
		r.nextID++
	}
	shop.CreatedAt = time.Now()
	shop.UpdatedAt = time.Now()
	r.shops[shop.ID] = *shop
	return nil
}

// GetByID returns a shop by ID.
func (r *MockShopRepository) GetByID(id models.ID) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shops[id]
	if !ok {
		return nil, apperrors.NotFound("shop", id.String())
	}
	return &s, nil
}

// GetByOwner returns the shop owned by the given user, if any.
func (r *MockShopRepository) GetByOwner(ownerID models.ID) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.shops {
		if s.OwnerID == ownerID {
			shop := s
			return &shop, nil
		}
	}
	return nil, apperrors.NotFound("shop", "owner:"+ownerID.String())
}

// Update modifies an existing shop.
func (r *MockShopRepository) Update(shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; !ok {
		return apperrors.NotFound("shop", shop.ID.String())
	}
	shop.UpdatedAt = time.Now()
	r.shops[shop.ID] = *shop
	return nil
}

// UpdateStatus sets the open/closed status of a shop.
func (r *MockShopRepository) UpdateStatus(id models.ID, status int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shops[id]
	if !ok {
		return apperrors.NotFound("shop", id.String())
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	r.shops[id] = s
	return nil
}

// UpdateAuditStatus sets the moderation state of a shop application.
func (r *MockShopRepository) UpdateAuditStatus(id models.ID, auditStatus int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shops[id]
	if !ok {
		return apperrors.NotFound("shop", id.String())
	}
	s.AuditStatus = auditStatus
	s.UpdatedAt = time.Now()
	r.shops[id] = s
	return nil
}

// Delete removes a shop by ID.
func (r *MockShopRepository) Delete(id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[id]; !ok {
		return apperrors.NotFound("shop", id.String())
	}
	delete(r.shops, id)
	return nil
}

// List returns a page of shops matching the filter plus the total count.
func (r *MockShopRepository) List(filter ShopFilter, page, limit int) ([]models.Shop, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.AuditStatus != nil && s.AuditStatus != *filter.AuditStatus {
			continue
		}
		if filter.Name != "" && !strings.Contains(s.Name, filter.Name) {
			continue
		}
		if filter.OwnerID != 0 && s.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, s)
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Shop{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
