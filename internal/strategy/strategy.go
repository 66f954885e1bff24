// Package strategy compares three ways of paying for a car over a seven year
// horizon: pay the loan down fast, finance long and invest the difference, or
// pay down fast and invest once the loan is closed.
package strategy

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Strategy identifiers.
const (
	PayDownFast      = "A"
	FinanceAndInvest = "B"
	DelayedInvesting = "C"
)

// Delta directions.
const (
	More = "more"
	Less = "less"
)

// Fuel is the optional running cost added to every strategy's outgo.
type Fuel struct {
	Include   bool    `json:"include" mapstructure:"include"`
	MonthlyKm float64 `json:"monthlyKm" mapstructure:"monthlyKm" validate:"gte=0,lte=10000" label:"Monthly Kilometers"`
	Mileage   float64 `json:"mileage" mapstructure:"mileage" validate:"gte=1,lte=100" label:"Mileage"`
	FuelPrice float64 `json:"fuelPrice" mapstructure:"fuelPrice" validate:"gte=0,lte=500" label:"Fuel Price"`
}

// MonthlyCost is the fuel bill for a month, or 0 when fuel is excluded.
func (f Fuel) MonthlyCost() float64 {
	if !f.Include {
		return 0
	}
	mileage := mathutil.NonNegative(f.Mileage)
	if mileage == 0 {
		mileage = 1
	}
	return mathutil.NonNegative(f.MonthlyKm) / mileage * mathutil.NonNegative(f.FuelPrice)
}

// Inputs are the shared assumptions of all three strategies. InvestableLumpsum
// is the part of TotalCash strategy B keeps invested instead of putting down.
type Inputs struct {
	AssetPrice          float64 `json:"assetPrice" mapstructure:"assetPrice" validate:"gte=100000,lte=20000000" label:"Car Price"`
	TotalCash           float64 `json:"totalCash" mapstructure:"totalCash" validate:"gte=0,lte=20000000" label:"Total Cash Available"`
	InvestableLumpsum   float64 `json:"investableLumpsum" mapstructure:"investableLumpsum" validate:"gte=0,lte=20000000" label:"Investable Lumpsum"`
	LoanRatePercent     float64 `json:"loanRatePercent" mapstructure:"loanRatePercent" validate:"gte=0,lte=30" label:"Loan Interest Rate"`
	InvestReturnPercent float64 `json:"investReturnPercent" mapstructure:"investReturnPercent" validate:"gte=0,lte=50" label:"SIP Returns"`
	TaxPercent          float64 `json:"taxPercent" mapstructure:"taxPercent" validate:"gte=0,lte=50" label:"Tax Rate"`
	DepreciationPercent float64 `json:"depreciationPercent" mapstructure:"depreciationPercent" validate:"gte=0,lte=50" label:"Depreciation Rate"`
	InflationPercent    float64 `json:"inflationPercent" mapstructure:"inflationPercent" validate:"gte=0,lte=50" label:"Inflation Rate"`
	Fuel                Fuel    `json:"fuel" mapstructure:"fuel"`
}

// DefaultInputs is a mid-range car bought with five lakh in hand.
func DefaultInputs() Inputs {
	return Inputs{
		AssetPrice:          2281000,
		TotalCash:           500000,
		InvestableLumpsum:   100000,
		LoanRatePercent:     9,
		InvestReturnPercent: 13,
		TaxPercent:          12.5,
		DepreciationPercent: 15,
		InflationPercent:    constants.DefaultInflationPercent,
		Fuel: Fuel{
			Include:   true,
			MonthlyKm: 1000,
			Mileage:   15,
			FuelPrice: 100,
		},
	}
}

// Sanitize clamps amounts and rates to non-negative values, caps percentages
// at 100 and the lumpsum at the cash available.
func (in Inputs) Sanitize() Inputs {
	in.AssetPrice = mathutil.NonNegative(in.AssetPrice)
	in.TotalCash = mathutil.NonNegative(in.TotalCash)
	in.InvestableLumpsum = mathutil.Clamp(mathutil.NonNegative(in.InvestableLumpsum), 0, in.TotalCash)
	in.LoanRatePercent = mathutil.NonNegative(in.LoanRatePercent)
	in.InvestReturnPercent = mathutil.NonNegative(in.InvestReturnPercent)
	in.TaxPercent = mathutil.Clamp(mathutil.NonNegative(in.TaxPercent), 0, constants.PercentageMultiplier)
	in.DepreciationPercent = mathutil.Clamp(mathutil.NonNegative(in.DepreciationPercent), 0, constants.PercentageMultiplier)
	in.InflationPercent = mathutil.NonNegative(in.InflationPercent)
	in.Fuel.MonthlyKm = mathutil.NonNegative(in.Fuel.MonthlyKm)
	in.Fuel.Mileage = mathutil.NonNegative(in.Fuel.Mileage)
	in.Fuel.FuelPrice = mathutil.NonNegative(in.Fuel.FuelPrice)
	return in
}

// Projection is one strategy's outcome. YearlyNetWorth[0] is the starting
// cash; later entries are asset value plus investments less the loan balance.
type Projection struct {
	ID                string                              `json:"id"`
	Name              string                              `json:"name"`
	DownPayment       float64                             `json:"downPayment"`
	LoanAmount        float64                             `json:"loanAmount"`
	TermMonths        int                                 `json:"termMonths"`
	MonthlyEMI        float64                             `json:"monthlyEmi"`
	TotalEMIPaid      float64                             `json:"totalEmiPaid"`
	TotalInterestPaid float64                             `json:"totalInterestPaid"`
	MonthlyInvestment float64                             `json:"monthlyInvestment"`
	InvestmentMonths  int                                 `json:"investmentMonths"`
	LeftoverCash      float64                             `json:"leftoverCash"`
	InvestmentValue   float64                             `json:"investmentValue"`
	MonthlyOutflow    float64                             `json:"monthlyOutflow"`
	YearlyNetWorth    [constants.HorizonYears + 1]float64 `json:"yearlyNetWorth"`
	TotalAssets       float64                             `json:"totalAssets"`
	TotalOutgo        float64                             `json:"totalOutgo"`
	NetCost           float64                             `json:"netCost"`
}

// Delta compares strategy B's total assets with another strategy's.
type Delta struct {
	Amount    float64 `json:"amount"`
	Direction string  `json:"direction"`
}

func newDelta(diff float64) Delta {
	if diff > 0 {
		return Delta{Amount: diff, Direction: More}
	}
	return Delta{Amount: math.Abs(diff), Direction: Less}
}

// ComparisonResult holds all three projections and the figures they share.
type ComparisonResult struct {
	Inputs              Inputs       `json:"inputs"`
	Projections         []Projection `json:"projections"`
	AssetValueAtHorizon float64      `json:"assetValueAtHorizon"`
	MonthlyFuelCost     float64      `json:"monthlyFuelCost"`
	TotalFuelCost       float64      `json:"totalFuelCost"`
	PurchasingPower     float64      `json:"purchasingPower"`
	SuggestedLumpsum    float64      `json:"suggestedLumpsum"`
	DeltaVsA            Delta        `json:"deltaVsA"`
	DeltaVsC            Delta        `json:"deltaVsC"`
}

// Projection returns the projection with the given ID.
func (r ComparisonResult) Projection(id string) (Projection, bool) {
	for _, p := range r.Projections {
		if p.ID == id {
			return p, true
		}
	}
	return Projection{}, false
}

// Best is the strategy ending the horizon with the most assets. Ties go to the
// earlier strategy.
func (r ComparisonResult) Best() Projection {
	var best Projection
	for i, p := range r.Projections {
		if i == 0 || p.TotalAssets > best.TotalAssets {
			best = p
		}
	}
	return best
}

// AssetValue is the depreciated value of the asset after years.
func AssetValue(price, depreciationPercent float64, years int) float64 {
	rate := mathutil.Clamp(mathutil.NonNegative(depreciationPercent), 0, constants.PercentageMultiplier)
	return mathutil.NonNegative(price) * math.Pow(1-mathutil.PercentToDecimal(rate), float64(mathutil.Months(years)))
}

// SuggestedLumpsum is the cash left to invest after the lender's minimum down
// payment, rounded to whole rupees.
func SuggestedLumpsum(price, cash float64) float64 {
	minimum := math.Round(mathutil.NonNegative(price) * mathutil.PercentToDecimal(constants.MinDownPaymentPercent))
	return math.Max(0, mathutil.NonNegative(cash)-minimum)
}

// PurchasingPower discounts cash by inflation over years.
func PurchasingPower(cash, inflationPercent float64, years int) float64 {
	growth := math.Pow(1+mathutil.PercentToDecimal(mathutil.NonNegative(inflationPercent)), float64(mathutil.Months(years)))
	return mathutil.Finite(mathutil.NonNegative(cash) / growth)
}

// ProjectStrategies projects all three strategies over the horizon.
func ProjectStrategies(inputs Inputs) ComparisonResult {
	in := inputs.Sanitize()

	price, cash, lumpsum := in.AssetPrice, in.TotalCash, in.InvestableLumpsum
	rate, ret, tax := in.LoanRatePercent, in.InvestReturnPercent, in.TaxPercent

	monthlyFuel := in.Fuel.MonthlyCost()
	totalFuel := monthlyFuel * constants.HorizonMonths
	assetAt := func(year int) float64 { return AssetValue(price, in.DepreciationPercent, year) }
	assetAtHorizon := assetAt(constants.HorizonYears)

	// A: everything down, short loan.
	dpA := math.Min(cash, price)
	termsA := loans.Terms{Principal: math.Max(0, price-dpA), AnnualRatePercent: rate, TermMonths: constants.ShortLoanMonths}
	loanA := loans.Amortize(termsA, loans.ReducingBalanceEMI())
	leftover := math.Max(0, cash-dpA)

	a := Projection{
		ID:                PayDownFast,
		Name:              "Pay Down Fast",
		DownPayment:       dpA,
		LoanAmount:        termsA.Principal,
		TermMonths:        constants.ShortLoanMonths,
		MonthlyEMI:        loanA.MonthlyPayment,
		TotalEMIPaid:      loanA.MonthlyPayment * constants.ShortLoanMonths,
		TotalInterestPaid: loanA.TotalInterest,
		LeftoverCash:      leftover,
		MonthlyOutflow:    loanA.MonthlyPayment + monthlyFuel,
	}
	a.TotalAssets = assetAtHorizon + leftover
	a.TotalOutgo = cash + a.TotalEMIPaid + totalFuel

	// B: lumpsum kept invested, long loan, and the EMI saving versus A invested monthly.
	dpB := math.Max(0, cash-lumpsum)
	termsB := loans.Terms{Principal: math.Max(0, price-dpB), AnnualRatePercent: rate, TermMonths: constants.LongLoanMonths}
	loanB := loans.Amortize(termsB, loans.ReducingBalanceEMI())
	surplus := math.Max(0, loanA.MonthlyPayment-loanB.MonthlyPayment)

	sipB := finance.SIP(surplus, ret, constants.HorizonMonths, tax)
	lumpsumB := finance.Lumpsum(lumpsum, ret, constants.HorizonMonths, tax)
	b := Projection{
		ID:                FinanceAndInvest,
		Name:              "Finance & Invest",
		DownPayment:       dpB,
		LoanAmount:        termsB.Principal,
		TermMonths:        constants.LongLoanMonths,
		MonthlyEMI:        loanB.MonthlyPayment,
		TotalEMIPaid:      loanB.MonthlyPayment * constants.LongLoanMonths,
		TotalInterestPaid: loanB.TotalInterest,
		MonthlyInvestment: surplus,
		InvestmentMonths:  constants.HorizonMonths,
		InvestmentValue:   lumpsumB.FutureValueNet + sipB.FutureValueNet,
		MonthlyOutflow:    loanB.MonthlyPayment + surplus + monthlyFuel,
	}
	b.TotalAssets = assetAtHorizon + b.InvestmentValue
	b.TotalOutgo = cash + b.TotalEMIPaid + sipB.PrincipalContributed + totalFuel

	// C: A's loan, then A's EMI invested for the rest of the horizon.
	lateMonths := constants.HorizonMonths - constants.ShortLoanMonths
	sipC := finance.SIP(loanA.MonthlyPayment, ret, lateMonths, tax)
	c := Projection{
		ID:                DelayedInvesting,
		Name:              "Delayed Investing",
		DownPayment:       dpA,
		LoanAmount:        termsA.Principal,
		TermMonths:        constants.ShortLoanMonths,
		MonthlyEMI:        loanA.MonthlyPayment,
		TotalEMIPaid:      a.TotalEMIPaid,
		TotalInterestPaid: loanA.TotalInterest,
		MonthlyInvestment: loanA.MonthlyPayment,
		InvestmentMonths:  lateMonths,
		LeftoverCash:      leftover,
		InvestmentValue:   sipC.FutureValueNet,
		MonthlyOutflow:    loanA.MonthlyPayment + monthlyFuel,
	}
	c.TotalAssets = assetAtHorizon + leftover + c.InvestmentValue
	c.TotalOutgo = cash + c.TotalEMIPaid + sipC.PrincipalContributed + totalFuel

	a.YearlyNetWorth[0], b.YearlyNetWorth[0], c.YearlyNetWorth[0] = cash, cash, cash
	for year := 1; year <= constants.HorizonYears; year++ {
		months := year * constants.MonthsPerYear
		asset := assetAt(year)

		a.YearlyNetWorth[year] = asset + leftover - loans.LoanBalanceAt(termsA, months)

		pot := finance.FutureValueLumpsum(lumpsum, ret, months) + finance.FutureValueSIP(surplus, ret, months)
		invested := finance.ApplyTax(pot, lumpsum+surplus*float64(months), tax).FutureValueNet
		b.YearlyNetWorth[year] = asset + invested - loans.LoanBalanceAt(termsB, months)

		late := 0.0
		if months > constants.ShortLoanMonths {
			late = finance.SIP(loanA.MonthlyPayment, ret, months-constants.ShortLoanMonths, tax).FutureValueNet
		}
		c.YearlyNetWorth[year] = asset + leftover + late - loans.LoanBalanceAt(termsA, months)
	}

	projections := []Projection{a, b, c}
	for i := range projections {
		projections[i].NetCost = projections[i].TotalOutgo - projections[i].TotalAssets
	}

	return ComparisonResult{
		Inputs:              in,
		Projections:         projections,
		AssetValueAtHorizon: assetAtHorizon,
		MonthlyFuelCost:     monthlyFuel,
		TotalFuelCost:       totalFuel,
		PurchasingPower:     PurchasingPower(cash, in.InflationPercent, constants.HorizonYears),
		SuggestedLumpsum:    SuggestedLumpsum(price, cash),
		DeltaVsA:            newDelta(b.TotalAssets - a.TotalAssets),
		DeltaVsC:            newDelta(b.TotalAssets - c.TotalAssets),
	}
}
