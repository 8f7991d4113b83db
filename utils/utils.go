// Package utils provides utility functions for the application.
package utils

import "math"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// RoundMoney rounds v to 2 decimal places for presentation.
func RoundMoney(v float64) float64 {
	return RoundTo(v, 2)
}
