package repositories

import (
	"sync"
	"time"

	"mall/internal/apperrors"
	"mall/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[models.ID]models.User
	nextID models.ID
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[models.ID]models.User), nextID: 1}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Phone == user.Phone {
			return apperrors.Validationf("phone %s already registered", user.Phone)
		}
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByPhone returns a user by phone number.
func (r *MockUserRepository) GetByPhone(phone string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Phone == phone {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.NotFound("user", phone)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id models.ID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id.String())
	}
	return &u, nil
}

// Update modifies an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user", user.ID.String())
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user by ID.
func (r *MockUserRepository) Delete(id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user", id.String())
	}
	delete(r.users, id)
	return nil
}

// List returns a page of users plus the total count.
func (r *MockUserRepository) List(page, limit int) ([]models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.User{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
