package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// Input handed to the engine may come straight from a half-typed form field, so
// every public calculation runs its arguments through these helpers first and
// its results through Finite last. Nothing in the engine returns an error for
// bad numbers.

// NonNegative returns val, or 0 when val is negative, NaN or infinite.
func NonNegative(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return 0
	}
	return val
}

// Clamp bounds val to [lo, hi]. NaN becomes lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) || val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// TermMonths bounds a term to 1..constants.MaxTermMonths.
func TermMonths(months int) int {
	if months < 1 {
		return 1
	}
	if months > constants.MaxTermMonths {
		return constants.MaxTermMonths
	}
	return months
}

// Months bounds an elapsed month count to 0..constants.MaxTermMonths.
func Months(months int) int {
	if months < 0 {
		return 0
	}
	if months > constants.MaxTermMonths {
		return constants.MaxTermMonths
	}
	return months
}

// Finite replaces NaN and infinities with 0.
func Finite(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}
