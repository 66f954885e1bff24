// Package rootfind locates the crossing point of a monotonic function by bisection.
package rootfind

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Bisector searches [Low, High] for the point where a non-increasing function
// stops being positive.
type Bisector struct {
	Low        float64
	High       float64
	Iterations int
}

// DefaultBisector covers annual return rates from 0% to 60%, enough iterations
// for two-decimal convergence.
var DefaultBisector = Bisector{
	Low:        constants.BreakEvenLowerBound,
	High:       constants.BreakEvenUpperBound,
	Iterations: constants.BreakEvenIterations,
}

// Result describes a completed search.
type Result struct {
	Value      float64 `json:"value"`
	Found      bool    `json:"found"`
	Iterations int     `json:"iterations"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
}

// Search returns the smallest x in range with f(x) <= 0, rounded to two
// decimals. f(Low) <= 0 returns Low without searching; f(High) > 0 reports no
// root.
func (b Bisector) Search(f func(float64) float64) (float64, bool) {
	r := b.Run(f)
	return r.Value, r.Found
}

// Run is Search with the final bracket and iteration count.
func (b Bisector) Run(f func(float64) float64) Result {
	low, high := b.Low, b.High
	if high < low {
		low, high = high, low
	}

	if f(low) <= 0 {
		return Result{Value: low, Found: true, Low: low, High: low}
	}
	if f(high) > 0 {
		return Result{Found: false, Low: low, High: high}
	}

	iterations := 0
	for iterations < b.Iterations {
		mid := low + (high-low)/2
		iterations++
		if y := f(mid); y > 0 || math.IsNaN(y) {
			low = mid
		} else {
			high = mid
		}
	}

	return Result{
		Value:      mathutil.Round(high),
		Found:      true,
		Iterations: iterations,
		Low:        low,
		High:       high,
	}
}
