// Package dto
package dto

type CheckoutItemRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=product spot"`
	ProductUUID string `json:"product_uuid,omitempty" validate:"omitempty,uuid4"`
	SpotID      uint   `json:"spot_id,omitempty"`
	Quantity    int    `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

type CheckoutRequest struct {
	CustomerName  string                `json:"customer_name" validate:"required,min=1,max=255"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	ShippingLine1 string                `json:"shipping_line1" validate:"max=255"`
	ShippingLine2 string                `json:"shipping_line2" validate:"max=255"`
	ShippingCity  string                `json:"shipping_city" validate:"max=128"`
	ShippingState string                `json:"shipping_state" validate:"max=64"`
	ShippingZip   string                `json:"shipping_zip" validate:"max=32"`
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode    string                `json:"coupon_code,omitempty"`
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=paypal card"`
}

type CheckoutResponse struct {
	OrderUUID     string  `json:"order_uuid"`
	PayPalOrderID string  `json:"paypal_order_id"`
	ApprovalURL   string  `json:"approval_url"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
}

type OrderItemDTO struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type OrderDTO struct {
	UUID          string         `json:"uuid"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount"`
	CouponCode    string         `json:"coupon_code,omitempty"`
	Total         float64        `json:"total"`
	Status        string         `json:"status" example:"paid"`
	PaymentMethod string         `json:"payment_method"`
	PaymentRef    string         `json:"payment_ref,omitempty"`
	PaidAt        string         `json:"paid_at,omitempty"`
	CreatedAt     string         `json:"created_at"`
	Items         []OrderItemDTO `json:"items,omitempty"`
}
