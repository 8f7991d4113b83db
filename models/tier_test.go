package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name       string
		multiplier float64
		expected   string
	}{
		{"top of the scale", 5.0, TierLegendary},
		{"legendary threshold", 4.0, TierLegendary},
		{"just under legendary", 3.99, TierElite},
		{"elite threshold", 3.0, TierElite},
		{"strong threshold", 2.0, TierStrong},
		{"just under strong", 1.9, TierSolid},
		{"solid threshold", 1.0, TierSolid},
		{"budget threshold", 0.5, TierBudget},
		{"just under budget", 0.49, TierFiller},
		{"zero multiplier", 0, TierFiller},
		{"negative multiplier", -1, TierFiller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierFor(tt.multiplier))
		})
	}
}
