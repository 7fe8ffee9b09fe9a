package common

import "math"

// RoundMoney rounds an amount to whole cents, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
