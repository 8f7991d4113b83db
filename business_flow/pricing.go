package businessflow

import (
	"sort"

	"github.com/ripvault/breakroom/utils"
)

// WeightEntry is one active team's contribution to a break's price allocation.
type WeightEntry struct {
	TeamID     uint
	Name       string
	Multiplier float64
}

// SpotAllocation is the computed price for a single spot.
type SpotAllocation struct {
	TeamID uint
	Name   string
	Price  float64
}

// PricingResult holds the full output of one allocation run.
// FinalTotal applies the custom modifier on top of the revenue target; it is
// surfaced in summaries but does not feed the per-spot allocation.
type PricingResult struct {
	RevenueTarget    float64
	FinalTotal       float64
	WeightSum        float64
	AverageSpotPrice float64
	Spots            []SpotAllocation
}

// AllocateSpotPrices distributes the revenue target across weight entries in
// proportion to their multipliers. A non-positive cost or an empty weight set
// yields an empty result rather than an error. Entries are processed in name
// order so repeated runs over the same inputs produce identical output.
func AllocateSpotPrices(totalCost, profitMarginPct, customModifierPct float64, weights []WeightEntry) PricingResult {
	result := PricingResult{}
	if totalCost <= 0 || len(weights) == 0 {
		return result
	}

	result.RevenueTarget = utils.RoundTo(totalCost*(1+profitMarginPct/100), utils.InternalPriceScale)
	result.FinalTotal = utils.RoundTo(result.RevenueTarget*(1+customModifierPct/100), utils.InternalPriceScale)

	for _, w := range weights {
		result.WeightSum += w.Multiplier
	}
	if result.WeightSum <= 0 {
		return PricingResult{}
	}

	ordered := make([]WeightEntry, len(weights))
	copy(ordered, weights)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	baseUnit := result.RevenueTarget / result.WeightSum
	result.Spots = make([]SpotAllocation, 0, len(ordered))
	for _, w := range ordered {
		result.Spots = append(result.Spots, SpotAllocation{
			TeamID: w.TeamID,
			Name:   w.Name,
			Price:  utils.RoundTo(baseUnit*w.Multiplier, utils.InternalPriceScale),
		})
	}

	result.AverageSpotPrice = utils.RoundTo(result.RevenueTarget/float64(len(ordered)), utils.InternalPriceScale)
	return result
}
