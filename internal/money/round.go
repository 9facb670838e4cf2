// Package money rounds engine outputs: currency to whole units, percentages to one decimal.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Dollars rounds a currency amount half away from zero to the nearest whole unit.
func Dollars(v float64) float64 {
	return round(v, 0)
}

// Cents rounds a per-unit rate such as cost per square foot.
func Cents(v float64) float64 {
	return round(v, 2)
}

// Percent rounds a 0..100 figure to one decimal place.
func Percent(v float64) float64 {
	return round(v, 1)
}

// Ratio converts a 0..1 fraction into a percentage with one decimal place.
func Ratio(v float64) float64 {
	return round(v*100, 1)
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Clamp bounds v to [lo, hi]; NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
