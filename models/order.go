package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment axis of an order
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// OrderStatus is the kitchen-side fulfillment axis; unset until payment is confirmed
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
)

type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"not null;index"`
	CanteenID     uint            `json:"canteen_id" gorm:"not null;index"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"not null;default:'PENDING';index"`
	Status        *OrderStatus    `json:"o_status" gorm:"column:o_status"`
	TransactionID *string         `json:"transaction_id"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
}

// OrderItem is a snapshot of a cart line; it does not reference menu_items.
type OrderItem struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	OrderID  uint            `json:"order_id" gorm:"not null;index"`
	ItemName string          `json:"item_name" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // unit price at time of order
	Quantity int             `json:"quantity" gorm:"not null"`
}

// NameRef mirrors the embedded `users(name)` / `canteens(name)` shape the frontend reads.
type NameRef struct {
	Name string `json:"name"`
}

// OrderSummary is the row shape of staff and admin order listings
type OrderSummary struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"user_id"`
	CanteenID     uint            `json:"canteen_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Status        *OrderStatus    `json:"o_status"`
	TransactionID *string         `json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Users         NameRef         `json:"users"`
	Canteens      *NameRef        `json:"canteens,omitempty"`
}
