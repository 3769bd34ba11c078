package models

import "time"

// User types.
const (
	UserTypeCustomer = 1
	UserTypeAdmin    = 2
)

// User account statuses.
const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
)

// User represents an account identified by phone number.
type User struct {
	ID        ID        `json:"id" gorm:"primaryKey;autoIncrement"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;type:varchar(20);not null" validate:"required,min=5,max=20"`
	UserType  int       `json:"user_type" gorm:"not null;default:1" validate:"omitempty,oneof=1 2"`
	Nickname  string    `json:"nickname" gorm:"type:varchar(100)"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(255)"`
	Status    int       `json:"status" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
