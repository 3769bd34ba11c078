package models

import "time"

// Category groups products for browsing.
type Category struct {
	ID        ID        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Sort      int       `json:"sort" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
