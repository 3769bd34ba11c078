package models

import "time"

// Shop audit statuses. A shop is publicly listed as open only after approval.
const (
	ShopAuditPending  = 0
	ShopAuditApproved = 1
	ShopAuditRejected = 2
)

// Shop operational statuses.
const (
	ShopStatusClosed = 0
	ShopStatusOpen   = 1
)

// Shop represents a merchant storefront owned by exactly one user.
type Shop struct {
	ID              ID        `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID         ID        `json:"owner_id" gorm:"uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description     string    `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Logo            string    `json:"logo" gorm:"type:varchar(255)"`
	LegalName       string    `json:"legal_name" gorm:"type:varchar(100)"`
	IDCardNo        string    `json:"id_card_no" gorm:"type:varchar(30)"`
	IDCardFront     string    `json:"id_card_front" gorm:"type:varchar(255)"`
	IDCardBack      string    `json:"id_card_back" gorm:"type:varchar(255)"`
	BusinessLicense string    `json:"business_license" gorm:"type:varchar(255)"`
	BusinessPermit  string    `json:"business_permit" gorm:"type:varchar(255)"`
	WechatQrcode    string    `json:"wechat_qrcode" gorm:"type:varchar(255)"`
	AuditStatus     int       `json:"audit_status" gorm:"not null;default:0"`
	Status          int       `json:"status" gorm:"not null;default:1"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
