// Package core provides the expense aggregation and classification pipeline.
//
// This file contains the rounding helpers applied when results are built.
// Accumulation always happens on unrounded values.
package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds to two decimals, half away from zero, on the shortest
// decimal representation of v (so 2.675 becomes 2.68).
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

// Round1 rounds to one decimal with the same rules as Round2.
func Round1(v float64) float64 {
	return roundTo(v, 1)
}

func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// FormatPct renders a percentage with at least one decimal, e.g. 60.0 or 12.5.
func FormatPct(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "0.0"
	}
	return decimal.NewFromFloat(pct).StringFixed(1)
}
