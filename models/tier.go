package models

// Popularity tier labels, highest first. Tiers are display-only: they are
// derived from a team's multiplier at read time and never persisted.
const (
	TierLegendary = "legendary"
	TierElite     = "elite"
	TierStrong    = "strong"
	TierSolid     = "solid"
	TierBudget    = "budget"
	TierFiller    = "filler"
)

// tierThresholds maps the canonical 0-5 multiplier scale to tier labels.
// Ordered highest threshold first; the first match wins.
var tierThresholds = []struct {
	Min  float64
	Name string
}{
	{4.0, TierLegendary},
	{3.0, TierElite},
	{2.0, TierStrong},
	{1.0, TierSolid},
	{0.5, TierBudget},
}

// TierFor buckets a popularity multiplier into one of the six tier labels.
func TierFor(multiplier float64) string {
	for _, t := range tierThresholds {
		if multiplier >= t.Min {
			return t.Name
		}
	}
	return TierFiller
}
