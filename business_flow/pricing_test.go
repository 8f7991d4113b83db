package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateSpotPrices(t *testing.T) {
	tests := []struct {
		name              string
		totalCost         float64
		profitMarginPct   float64
		customModifierPct float64
		weights           []WeightEntry
		expectEmpty       bool
		expectTarget      float64
		expectFinal       float64
		expectWeightSum   float64
		expectAverage     float64
		expectPrices      map[string]float64
	}{
		{
			name:            "hundred dollar break with quarter margin",
			totalCost:       100,
			profitMarginPct: 25,
			weights: []WeightEntry{
				{TeamID: 1, Name: "Yankees", Multiplier: 2},
				{TeamID: 2, Name: "Angels", Multiplier: 1},
				{TeamID: 3, Name: "Mets", Multiplier: 1},
			},
			expectTarget:    125,
			expectFinal:     125,
			expectWeightSum: 4,
			expectAverage:   41.6667,
			expectPrices: map[string]float64{
				"Yankees": 62.50,
				"Angels":  31.25,
				"Mets":    31.25,
			},
		},
		{
			name:            "single spot carries the full target",
			totalCost:       50,
			profitMarginPct: 0,
			weights: []WeightEntry{
				{TeamID: 9, Name: "Dodgers", Multiplier: 1.5},
			},
			expectTarget:    50,
			expectFinal:     50,
			expectWeightSum: 1.5,
			expectAverage:   50,
			expectPrices: map[string]float64{
				"Dodgers": 50,
			},
		},
		{
			name:              "custom modifier raises final total only",
			totalCost:         200,
			profitMarginPct:   10,
			customModifierPct: 5,
			weights: []WeightEntry{
				{TeamID: 1, Name: "Braves", Multiplier: 1},
				{TeamID: 2, Name: "Cubs", Multiplier: 1},
			},
			expectTarget:    220,
			expectFinal:     231,
			expectWeightSum: 2,
			expectAverage:   110,
			expectPrices: map[string]float64{
				"Braves": 110,
				"Cubs":   110,
			},
		},
		{
			name:            "zero cost yields empty result",
			totalCost:       0,
			profitMarginPct: 25,
			weights: []WeightEntry{
				{TeamID: 1, Name: "Yankees", Multiplier: 2},
			},
			expectEmpty: true,
		},
		{
			name:            "negative cost yields empty result",
			totalCost:       -10,
			profitMarginPct: 25,
			weights: []WeightEntry{
				{TeamID: 1, Name: "Yankees", Multiplier: 2},
			},
			expectEmpty: true,
		},
		{
			name:            "no weights yields empty result",
			totalCost:       100,
			profitMarginPct: 25,
			weights:         nil,
			expectEmpty:     true,
		},
		{
			name:            "zero weight sum yields empty result",
			totalCost:       100,
			profitMarginPct: 25,
			weights: []WeightEntry{
				{TeamID: 1, Name: "Yankees", Multiplier: 0},
				{TeamID: 2, Name: "Mets", Multiplier: 0},
			},
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AllocateSpotPrices(tt.totalCost, tt.profitMarginPct, tt.customModifierPct, tt.weights)

			if tt.expectEmpty {
				assert.Empty(t, result.Spots)
				assert.Zero(t, result.RevenueTarget)
				assert.Zero(t, result.AverageSpotPrice)
				return
			}

			assert.InDelta(t, tt.expectTarget, result.RevenueTarget, 0.0001)
			assert.InDelta(t, tt.expectFinal, result.FinalTotal, 0.0001)
			assert.InDelta(t, tt.expectWeightSum, result.WeightSum, 0.0001)
			assert.InDelta(t, tt.expectAverage, result.AverageSpotPrice, 0.0001)
			require.Len(t, result.Spots, len(tt.expectPrices))
			for _, spot := range result.Spots {
				expected, ok := tt.expectPrices[spot.Name]
				require.True(t, ok, "unexpected spot %q", spot.Name)
				assert.InDelta(t, expected, spot.Price, 0.0001)
			}
		})
	}
}

func TestAllocateSpotPricesProportionality(t *testing.T) {
	weights := []WeightEntry{
		{TeamID: 1, Name: "Yankees", Multiplier: 3},
		{TeamID: 2, Name: "Royals", Multiplier: 0.5},
		{TeamID: 3, Name: "Padres", Multiplier: 1.5},
	}

	result := AllocateSpotPrices(400, 20, 0, weights)
	require.Len(t, result.Spots, 3)

	prices := make(map[string]float64, len(result.Spots))
	for _, spot := range result.Spots {
		prices[spot.Name] = spot.Price
	}

	// A team with twice the multiplier pays twice the price.
	assert.InDelta(t, prices["Yankees"]/prices["Royals"], 3/0.5, 0.001)
	assert.InDelta(t, prices["Padres"]/prices["Royals"], 1.5/0.5, 0.001)
}

func TestAllocateSpotPricesRevenueConservation(t *testing.T) {
	weights := []WeightEntry{
		{TeamID: 1, Name: "Astros", Multiplier: 2.7},
		{TeamID: 2, Name: "Brewers", Multiplier: 1.1},
		{TeamID: 3, Name: "Cardinals", Multiplier: 0.9},
		{TeamID: 4, Name: "Guardians", Multiplier: 1.3},
	}

	result := AllocateSpotPrices(333.33, 17.5, 0, weights)
	require.Len(t, result.Spots, 4)

	var total float64
	for _, spot := range result.Spots {
		total += spot.Price
	}
	// Allow for per-spot rounding drift.
	assert.InDelta(t, result.RevenueTarget, total, 0.01)
}

func TestAllocateSpotPricesStableOrdering(t *testing.T) {
	weights := []WeightEntry{
		{TeamID: 5, Name: "Twins", Multiplier: 1},
		{TeamID: 3, Name: "Cubs", Multiplier: 1},
		{TeamID: 8, Name: "Mariners", Multiplier: 1},
	}

	first := AllocateSpotPrices(90, 10, 0, weights)
	second := AllocateSpotPrices(90, 10, 0, weights)

	require.Len(t, first.Spots, 3)
	assert.Equal(t, "Cubs", first.Spots[0].Name)
	assert.Equal(t, "Mariners", first.Spots[1].Name)
	assert.Equal(t, "Twins", first.Spots[2].Name)
	assert.Equal(t, first.Spots, second.Spots)
}
