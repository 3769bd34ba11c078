package repositories

import (
	"errors"
	"fmt"

	"mall/internal/apperrors"
	"mall/internal/models"

	"gorm.io/gorm"
)

// GORMShopRepository is a GORM implementation of ShopRepository.
type GORMShopRepository struct {
	db *gorm.DB
}

// NewGORMShopRepository creates a new instance of GORMShopRepository.
func NewGORMShopRepository(db *gorm.DB) *GORMShopRepository {
	return &GORMShopRepository{db: db}
}

// Create inserts a new shop.
func (r *GORMShopRepository) Create(shop *models.Shop) error {
	if err := r.db.Create(shop).Error; err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// GetByID retrieves a shop by ID.
func (r *GORMShopRepository) GetByID(id models.ID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shop", id.String())
		}
		return nil, fmt.Errorf("failed to get shop %s: %w", id, err)
	}
	return &shop, nil
}

// GetByOwner retrieves the shop owned by the given user, if any.
func (r *GORMShopRepository) GetByOwner(ownerID models.ID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shop", "owner:"+ownerID.String())
		}
		return nil, fmt.Errorf("failed to get shop for owner %s: %w", ownerID, err)
	}
	return &shop, nil
}

// Update saves changes to an existing shop.
func (r *GORMShopRepository) Update(shop *models.Shop) error {
	res := r.db.Save(shop)
	if res.Error != nil {
		return fmt.Errorf("failed to update shop: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("shop", shop.ID.String())
	}
	return nil
}

// UpdateStatus sets the open/closed status of a shop.
func (r *GORMShopRepository) UpdateStatus(id models.ID, status int) error {
	return r.updateColumn(id, "status", status)
}

// UpdateAuditStatus sets the moderation state of a shop application.
func (r *GORMShopRepository) UpdateAuditStatus(id models.ID, auditStatus int) error {
	return r.updateColumn(id, "audit_status", auditStatus)
}

func (r *GORMShopRepository) updateColumn(id models.ID, column string, value int) error {
	res := r.db.Model(&models.Shop{}).Where("id = ?", id).UpdateColumn(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update shop %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("shop", id.String())
	}
	return nil
}

// Delete removes a shop by ID.
func (r *GORMShopRepository) Delete(id models.ID) error {
	res := r.db.Delete(&models.Shop{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shop: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("shop", id.String())
	}
	return nil
}

// List returns a page of shops matching the filter plus the total count.
func (r *GORMShopRepository) List(filter ShopFilter, page, limit int) ([]models.Shop, int64, error) {
	q := r.db.Model(&models.Shop{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.AuditStatus != nil {
		q = q.Where("audit_status = ?", *filter.AuditStatus)
	}
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.OwnerID != 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shops: %w", err)
	}

	var shops []models.Shop
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&shops).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, total, nil
}
