package models

import "time"

// Product statuses.
const (
	ProductStatusInactive = 0
	ProductStatusActive   = 1
)

// Product represents a catalog entry belonging to one shop and one category.
// Stock never goes below zero; decrements are applied with a conditional
// update so that the check and the write are a single database operation.
type Product struct {
	ID             ID         `json:"id" gorm:"primaryKey;autoIncrement"`
	ShopID         ID         `json:"shop_id" gorm:"index;not null" validate:"required"`
	CategoryID     ID         `json:"category_id" gorm:"index;not null" validate:"required"`
	Name           string     `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	Description    string     `json:"description" gorm:"type:varchar(1000)" validate:"omitempty,max=1000"`
	Specification  string     `json:"specification" gorm:"type:varchar(255)"`
	OriginalPrice  float64    `json:"original_price" gorm:"not null" validate:"gte=0"`
	SellingPrice   float64    `json:"selling_price" gorm:"not null" validate:"gte=0"`
	Stock          int        `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	Status         int        `json:"status" gorm:"not null;default:1"`
	PromotionStart *time.Time `json:"promotion_start"`
	PromotionEnd   *time.Time `json:"promotion_end"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// InPromotion reports whether the product's promotion window covers now.
func (p *Product) InPromotion(now time.Time) bool {
	return p.PromotionStart != nil && p.PromotionEnd != nil &&
		!now.Before(*p.PromotionStart) && !now.After(*p.PromotionEnd)
}
