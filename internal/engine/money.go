// Package engine implements the deterministic financial cycle and projection
// core of the tracker: cadence normalization, calendar cycle counting,
// card/loan lifecycle simulation, portfolio projection, payoff strategy
// selection and what-if/refinance analysis.
//
// Every function in this package is pure. The same snapshot and cycle count
// produce the same rounded output whether invoked from the server-side
// monthly-cycle job or from a read-only API request, which is what the
// cross-surface consistency check relies on.
package engine

import "math"

// RoundCurrency rounds a monetary value to the nearest hundredth. Non-finite
// input rounds to zero. Applied every time a value crosses a cycle boundary
// so that no fractional cents are carried between cycles.
func RoundCurrency(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteOrZero coerces NaN and infinities to zero. Malformed numeric input
// never faults the engine; it is treated as an absent value.
func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

// nonNegative clamps v at zero. Balances never amortize below zero.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// clampPercent restricts v to the [0, 100] range.
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// monthlyRate converts an APR percentage to a monthly decimal rate. Rates at
// or below zero contribute no interest.
func monthlyRate(aprPercent float64) float64 {
	if aprPercent <= 0 {
		return 0
	}
	return aprPercent / 100 / 12
}
