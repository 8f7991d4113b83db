package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount kinds
const (
	CouponTypePercent = "percent"
	CouponTypeFixed   = "fixed"
)

// Coupon is a checkout discount code. Amount is a percentage for percent
// coupons and a money value for fixed coupons. Table: coupons
type Coupon struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string     `gorm:"size:64;not null;uniqueIndex:uk_coupons_code" json:"code"`
	Type           string     `gorm:"size:16;not null" json:"type"`
	Amount         float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	MinSubtotal    float64    `gorm:"type:numeric(12,2);not null;default:0" json:"min_subtotal"`
	MaxRedemptions *int       `json:"max_redemptions,omitempty"`
	Redemptions    int        `gorm:"not null;default:0" json:"redemptions"`
	ExpiresAt      *time.Time `gorm:"index:idx_coupons_expires_at" json:"expires_at,omitempty"`
	IsActive       *bool      `gorm:"default:true;index:idx_coupons_is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// DiscountAmount returns the money value this coupon takes off the given
// subtotal. The result is clamped to the subtotal so totals never go
// negative. Eligibility (expiry, minimum, redemption cap) is checked by the
// checkout flow, not here.
func (c *Coupon) DiscountAmount(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}

	var discount float64
	switch c.Type {
	case CouponTypePercent:
		discount = subtotal * c.Amount / 100
	case CouponTypeFixed:
		discount = c.Amount
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}

// CouponFilter represents filter criteria for coupon queries
type CouponFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
