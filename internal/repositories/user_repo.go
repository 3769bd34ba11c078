package repositories

import (
	"mall/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByPhone(phone string) (*models.User, error)
	GetByID(id models.ID) (*models.User, error)
	Update(user *models.User) error
	Delete(id models.ID) error
	List(page, limit int) ([]models.User, int64, error)
}
