// Package dto
package dto

import "time"

type CouponDTO struct {
	Code           string  `json:"code" example:"RIP10"`
	Type           string  `json:"type" example:"percent"`
	Amount         float64 `json:"amount"`
	MinSubtotal    float64 `json:"min_subtotal"`
	MaxRedemptions int     `json:"max_redemptions,omitempty"`
	Redemptions    int     `json:"redemptions"`
	IsActive       bool    `json:"is_active"`
	ExpiresAt      string  `json:"expires_at,omitempty"`
}

type CreateCouponRequest struct {
	Code           string     `json:"code" validate:"required,min=2,max=64"`
	Type           string     `json:"type" validate:"required,oneof=percent fixed"`
	Amount         float64    `json:"amount" validate:"required,gt=0"`
	MinSubtotal    float64    `json:"min_subtotal" validate:"gte=0"`
	MaxRedemptions *int       `json:"max_redemptions,omitempty" validate:"omitempty,gt=0"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type ApplyCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}

type ApplyCouponResponse struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}
