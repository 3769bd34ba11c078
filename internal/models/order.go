package models

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus int

const (
	OrderAwaitingPayment  OrderStatus = 0
	OrderAwaitingShipment OrderStatus = 1
	OrderAwaitingReceipt  OrderStatus = 2
	OrderCompleted        OrderStatus = 3
	OrderCancelled        OrderStatus = 4
)

// Valid reports whether s is one of the enumerated order statuses.
func (s OrderStatus) Valid() bool {
	return s >= OrderAwaitingPayment && s <= OrderCancelled
}

// OrderTransitions is the allow-list of status successors. It is currently
// fully permissive: every enumerated status may follow every other, including
// backward moves. Tightening the lifecycle means editing this table, nothing
// else.
var OrderTransitions = map[OrderStatus][]OrderStatus{
	OrderAwaitingPayment:  {OrderAwaitingPayment, OrderAwaitingShipment, OrderAwaitingReceipt, OrderCompleted, OrderCancelled},
	OrderAwaitingShipment: {OrderAwaitingPayment, OrderAwaitingShipment, OrderAwaitingReceipt, OrderCompleted, OrderCancelled},
	OrderAwaitingReceipt:  {OrderAwaitingPayment, OrderAwaitingShipment, OrderAwaitingReceipt, OrderCompleted, OrderCancelled},
	OrderCompleted:        {OrderAwaitingPayment, OrderAwaitingShipment, OrderAwaitingReceipt, OrderCompleted, OrderCancelled},
	OrderCancelled:        {OrderAwaitingPayment, OrderAwaitingShipment, OrderAwaitingReceipt, OrderCompleted, OrderCancelled},
}

// CanTransitionTo reports whether next is an allowed successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range OrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a customer order against a single shop.
type Order struct {
	ID           ID          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNo      string      `json:"order_no" gorm:"type:varchar(32);uniqueIndex;not null"`
	ShopID       ID          `json:"shop_id" gorm:"index;not null"`
	UserID       ID          `json:"user_id" gorm:"index;not null"`
	TotalAmount  float64     `json:"total_amount" gorm:"not null"`
	Status       OrderStatus `json:"status" gorm:"not null;default:0"`
	PaymentTime  *time.Time  `json:"payment_time"`
	ShippingTime *time.Time  `json:"shipping_time"`
	CompleteTime *time.Time  `json:"complete_time"`
	Items        []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order. Name and price are snapshots taken at
// order time so later catalog edits do not rewrite order history. The
// commission fields are carried for settlement but are always zero in this
// workflow.
type OrderItem struct {
	ID               ID      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID          ID      `json:"order_id" gorm:"index;not null"`
	ProductID        ID      `json:"product_id" gorm:"index;not null"`
	ProductName      string  `json:"product_name" gorm:"type:varchar(100);not null"`
	ProductPrice     float64 `json:"product_price" gorm:"not null"`
	Quantity         int     `json:"quantity" gorm:"not null"`
	CommissionRate   float64 `json:"commission_rate" gorm:"not null;default:0"`
	CommissionAmount float64 `json:"commission_amount" gorm:"not null;default:0"`
}
