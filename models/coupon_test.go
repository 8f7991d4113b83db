package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCouponDiscountAmount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal float64
		expected float64
	}{
		{
			name:     "percent coupon",
			coupon:   Coupon{Type: CouponTypePercent, Amount: 10},
			subtotal: 200,
			expected: 20,
		},
		{
			name:     "fixed coupon",
			coupon:   Coupon{Type: CouponTypeFixed, Amount: 15},
			subtotal: 200,
			expected: 15,
		},
		{
			name:     "fixed coupon clamped to subtotal",
			coupon:   Coupon{Type: CouponTypeFixed, Amount: 50},
			subtotal: 30,
			expected: 30,
		},
		{
			name:     "hundred percent coupon takes the whole subtotal",
			coupon:   Coupon{Type: CouponTypePercent, Amount: 100},
			subtotal: 75.50,
			expected: 75.50,
		},
		{
			name:     "zero subtotal",
			coupon:   Coupon{Type: CouponTypePercent, Amount: 10},
			subtotal: 0,
			expected: 0,
		},
		{
			name:     "negative subtotal",
			coupon:   Coupon{Type: CouponTypeFixed, Amount: 5},
			subtotal: -10,
			expected: 0,
		},
		{
			name:     "negative amount never credits the order",
			coupon:   Coupon{Type: CouponTypeFixed, Amount: -5},
			subtotal: 100,
			expected: 0,
		},
		{
			name:     "unknown coupon type",
			coupon:   Coupon{Type: "stacking", Amount: 10},
			subtotal: 100,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.coupon.DiscountAmount(tt.subtotal), 0.0001)
		})
	}
}
