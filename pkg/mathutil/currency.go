// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PercentToDecimal converts an annual percentage such as 9.0 into 0.09.
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// MonthlyRate converts an annual percentage rate into a monthly decimal rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
