package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodPaystack = "paystack"
	PaymentMethodManual   = "manual_momo"
	PaymentMethodPayLater = "pay_later"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	DeliveryStatusProcessing = "processing"
	DeliveryStatusReady      = "ready"
	DeliveryStatusDispatched = "dispatched"
	DeliveryStatusDelivered  = "delivered"
)

type Order struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    int64      `gorm:"autoIncrement;uniqueIndex" json:"order_number"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CustomerName   string     `json:"customer_name"`
	UserPhone      string     `gorm:"not null" json:"user_phone"`
	UserEmail      *string    `json:"user_email"`
	TotalAmount    float64    `gorm:"not null" json:"total_amount"`
	TaxAmount      float64    `gorm:"not null;default:0" json:"tax_amount"`
	DeliveryFee    float64    `gorm:"not null;default:0" json:"delivery_fee"`
	DeliveryZoneID *uuid.UUID `gorm:"type:uuid" json:"delivery_zone_id"`
	PaymentMethod  string     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus  string     `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	DeliveryStatus string     `gorm:"type:varchar(20);not null;default:'processing'" json:"delivery_status"`
	DeliveryAddress string    `json:"delivery_address"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is an immutable snapshot of what was purchased. PriceAtPurchase
// is frozen at placement and survives later price or promotion changes.
type OrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductTitle    string    `gorm:"not null" json:"product_title"`
	VariantName     string    `gorm:"not null" json:"variant_name"`
	PriceAtPurchase float64   `gorm:"not null" json:"price_at_purchase"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	Subtotal        float64   `gorm:"not null" json:"subtotal"`
}
