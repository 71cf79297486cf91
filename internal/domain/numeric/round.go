// Package numeric holds the rounding rules shared by the scoring engine.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds x to places decimal digits, half away from zero. Rounding
// goes through a decimal representation so values such as 1.005 round the
// way they read.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// RoundInt rounds x to the nearest integer, half away from zero.
func RoundInt(x float64) int {
	return int(math.Round(x))
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
