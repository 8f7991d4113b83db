package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodPayPal = "paypal"
	PaymentMethodCard   = "card"
)

// Order is a storefront checkout result. Table: orders
type Order struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_orders_uuid;not null" json:"uuid"`

	CustomerName  string `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:255;not null;index:idx_orders_customer_email" json:"customer_email"`
	ShippingLine1 string `gorm:"size:255" json:"shipping_line1"`
	ShippingLine2 string `gorm:"size:255" json:"shipping_line2"`
	ShippingCity  string `gorm:"size:128" json:"shipping_city"`
	ShippingState string `gorm:"size:64" json:"shipping_state"`
	ShippingZip   string `gorm:"size:32" json:"shipping_zip"`

	Subtotal   float64 `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount   float64 `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	CouponCode *string `gorm:"size:64;index:idx_orders_coupon_code" json:"coupon_code,omitempty"`
	Total      float64 `gorm:"type:numeric(12,2);not null" json:"total"`

	Status        string     `gorm:"size:32;not null;default:'pending';index:idx_orders_status" json:"status"`
	StatusReason  string     `gorm:"size:255" json:"status_reason"`
	PaymentMethod string     `gorm:"size:32;not null" json:"payment_method"`
	PaymentRef    *string    `gorm:"size:255;index:idx_orders_payment_ref" json:"payment_ref,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_orders_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate ensures UUID is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// Order item kinds
const (
	OrderItemKindProduct = "product"
	OrderItemKindSpot    = "spot"
)

// OrderItem is one line of an order: either a product (with quantity) or a
// single break spot. Table: order_items
type OrderItem struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID uint   `gorm:"not null;index:idx_order_items_order_id" json:"order_id"`
	Kind    string `gorm:"size:16;not null" json:"kind"`

	ProductID *uint `gorm:"index:idx_order_items_product_id" json:"product_id,omitempty"`
	SpotID    *uint `gorm:"index:idx_order_items_spot_id" json:"spot_id,omitempty"`

	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal   float64 `gorm:"type:numeric(12,2);not null" json:"line_total"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	Status        *string    `json:"status,omitempty"`
	CouponCode    *string    `json:"coupon_code,omitempty"`
}
