package repositories

import (
	"mall/internal/models"
)

// ShopFilter narrows shop listings.
type ShopFilter struct {
	Status      *int
	AuditStatus *int
	Name        string
	OwnerID     models.ID
}

// ShopRepository defines the interface for shop data access.
type ShopRepository interface {
	Create(shop *models.Shop) error
	GetByID(id models.ID) (*models.Shop, error)
	GetByOwner(ownerID models.ID) (*models.Shop, error)
	Update(shop *models.Shop) error
	UpdateStatus(id models.ID, status int) error
	UpdateAuditStatus(id models.ID, auditStatus int) error
	Delete(id models.ID) error
	List(filter ShopFilter, page, limit int) ([]models.Shop, int64, error)
}
