package loans

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// YearBalance is the outstanding balance at the end of a loan year. Year 0 is
// the opening balance.
type YearBalance struct {
	Year    int     `json:"year"`
	Balance float64 `json:"balance"`
}

// YearlyBalances lists the rounded balance at the start of the loan and at the
// end of every loan year, the series charted by the loan calculator.
func YearlyBalances(terms Terms) []YearBalance {
	terms = terms.Sanitize()
	if terms.Principal <= 0 {
		return []YearBalance{{Year: 0, Balance: 0}}
	}

	years := int(math.Ceil(float64(terms.TermMonths) / constants.MonthsPerYear))
	balances := make([]YearBalance, 0, years+1)
	balances = append(balances, YearBalance{Year: 0, Balance: math.Round(terms.Principal)})
	for year := 1; year <= years; year++ {
		months := year * constants.MonthsPerYear
		if months > terms.TermMonths {
			months = terms.TermMonths
		}
		balances = append(balances, YearBalance{Year: year, Balance: math.Round(LoanBalanceAt(terms, months))})
	}
	return balances
}

// ChartBalances thins yearly balances for plotting. Series of up to
// constants.ChartPoints points are returned whole; longer ones keep every
// ceil(n/ChartPoints)-th point plus the final balance.
func ChartBalances(balances []YearBalance) []YearBalance {
	total := len(balances)
	if total <= constants.ChartPoints {
		return append([]YearBalance(nil), balances...)
	}

	stride := (total + constants.ChartPoints - 1) / constants.ChartPoints
	chart := make([]YearBalance, 0, constants.ChartPoints+1)
	for i, balance := range balances {
		if i == 0 || i == total-1 || i%stride == 0 {
			chart = append(chart, balance)
		}
	}
	return chart
}

// TenureComparison contrasts an alternative tenure with the current one.
// Deltas are taken on whole-rupee values, as displayed.
type TenureComparison struct {
	TenureYears    int     `json:"tenureYears"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	EMIDelta       float64 `json:"emiDelta"`
	InterestDelta  float64 `json:"interestDelta"`
}

// CompareTenures evaluates the loan at the current tenure shortened and
// lengthened by constants.TenureComparisonStepYears, skipping tenures outside
// 1..constants.MaxTenureYears.
func CompareTenures(principal, annualRatePercent float64, tenureYears int) []TenureComparison {
	principal = mathutil.NonNegative(principal)
	annualRatePercent = mathutil.NonNegative(annualRatePercent)
	if tenureYears < 1 {
		tenureYears = 1
	}

	current := Amortize(Terms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        tenureYears * constants.MonthsPerYear,
	}, ReducingBalanceEMI())
	currentEMI := math.Round(current.MonthlyPayment)
	currentInterest := math.Round(current.TotalInterest)

	candidates := []int{
		tenureYears - constants.TenureComparisonStepYears,
		tenureYears + constants.TenureComparisonStepYears,
	}

	var comparisons []TenureComparison
	for _, years := range candidates {
		if years <= 0 || years > constants.MaxTenureYears || years == tenureYears {
			continue
		}
		months := years * constants.MonthsPerYear
		emi := MonthlyPayment(principal, annualRatePercent, months)
		interest := mathutil.Finite(emi*float64(months) - principal)
		comparisons = append(comparisons, TenureComparison{
			TenureYears:    years,
			MonthlyPayment: emi,
			TotalInterest:  interest,
			EMIDelta:       math.Round(emi) - currentEMI,
			InterestDelta:  math.Round(interest) - currentInterest,
		})
	}
	return comparisons
}
