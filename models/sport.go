package models

// Sport categories supported by the shop. Teams and breaks are always
// scoped to exactly one sport.
const (
	SportBaseball   = "baseball"
	SportBasketball = "basketball"
	SportFootball   = "football"
	SportHockey     = "hockey"
	SportSoccer     = "soccer"
)

// AllSports lists every supported sport tag in display order.
var AllSports = []string{
	SportBaseball,
	SportBasketball,
	SportFootball,
	SportHockey,
	SportSoccer,
}

// IsValidSport reports whether the given tag is a known sport category.
func IsValidSport(sport string) bool {
	for _, s := range AllSports {
		if s == sport {
			return true
		}
	}
	return false
}
