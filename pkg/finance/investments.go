// Package finance implements investment growth: lumpsum and SIP future values,
// tax on gains, and the interest earned by cash kept invested while EMIs are paid.
package finance

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// GrowthResult is the outcome of an investment after tax on gains.
type GrowthResult struct {
	FutureValueGross     float64 `json:"futureValueGross"`
	PrincipalContributed float64 `json:"principalContributed"`
	TaxableGain          float64 `json:"taxableGain"`
	TaxPercent           float64 `json:"taxPercent"`
	TaxPaid              float64 `json:"taxPaid"`
	FutureValueNet       float64 `json:"futureValueNet"`
}

// Gain is the net growth over the contributed principal.
func (g GrowthResult) Gain() float64 {
	return g.FutureValueNet - g.PrincipalContributed
}

// FutureValueLumpsum compounds principal monthly at annualRatePercent for months.
func FutureValueLumpsum(principal, annualRatePercent float64, months int) float64 {
	principal = mathutil.NonNegative(principal)
	if months <= 0 {
		return principal
	}
	i := mathutil.MonthlyRate(mathutil.NonNegative(annualRatePercent))
	return mathutil.Finite(principal * math.Pow(1+i, float64(months)))
}

// FutureValueSIP is the value of a monthly contribution invested at the start
// of each month (annuity due).
func FutureValueSIP(contribution, annualRatePercent float64, months int) float64 {
	contribution = mathutil.NonNegative(contribution)
	if months <= 0 || contribution == 0 {
		return 0
	}
	months = mathutil.Months(months)
	i := mathutil.MonthlyRate(mathutil.NonNegative(annualRatePercent))
	// growth is (1+i)^months - 1, computed without cancellation for tiny rates.
	growth := math.Expm1(float64(months) * math.Log1p(i))
	if i == 0 || growth == 0 {
		return contribution * float64(months)
	}
	return mathutil.Finite(contribution * (growth / i) * (1 + i))
}

// ApplyTax taxes only the gain of futureValueGross over principal. A loss is
// never taxed, so the net value never exceeds the gross.
func ApplyTax(futureValueGross, principal, taxPercent float64) GrowthResult {
	futureValueGross = mathutil.NonNegative(futureValueGross)
	principal = mathutil.NonNegative(principal)
	taxPercent = mathutil.Clamp(mathutil.Finite(taxPercent), 0, constants.PercentageMultiplier)

	gain := math.Max(0, futureValueGross-principal)
	tax := gain * mathutil.PercentToDecimal(taxPercent)
	return GrowthResult{
		FutureValueGross:     futureValueGross,
		PrincipalContributed: principal,
		TaxableGain:          gain,
		TaxPercent:           taxPercent,
		TaxPaid:              tax,
		FutureValueNet:       futureValueGross - tax,
	}
}

// Lumpsum grows a single investment and taxes its gain.
func Lumpsum(principal, annualRatePercent float64, months int, taxPercent float64) GrowthResult {
	principal = mathutil.NonNegative(principal)
	return ApplyTax(FutureValueLumpsum(principal, annualRatePercent, months), principal, taxPercent)
}

// SIP grows a monthly contribution and taxes the gain over the amount paid in.
func SIP(contribution, annualRatePercent float64, months int, taxPercent float64) GrowthResult {
	contribution = mathutil.NonNegative(contribution)
	paidIn := contribution * float64(mathutil.Months(months))
	return ApplyTax(FutureValueSIP(contribution, annualRatePercent, months), paidIn, taxPercent)
}

// Opportunity is the result of keeping a balance invested while paying it out in instalments.
type Opportunity struct {
	InterestEarned float64 `json:"interestEarned"`
	FinalBalance   float64 `json:"finalBalance"`
}

// OpportunityReturn simulates a balance that earns monthly interest on its
// opening value each month before a withdrawal is taken from it.
func OpportunityReturn(balance, annualRatePercent float64, months int, withdrawal float64) Opportunity {
	balance = mathutil.NonNegative(balance)
	withdrawal = mathutil.NonNegative(withdrawal)
	i := mathutil.MonthlyRate(mathutil.NonNegative(annualRatePercent))

	earned := 0.0
	for m := 0; m < mathutil.Months(months); m++ {
		interest := balance * i
		earned += interest
		balance = balance + interest - withdrawal
	}
	return Opportunity{
		InterestEarned: mathutil.Finite(earned),
		FinalBalance:   mathutil.Finite(balance),
	}
}
