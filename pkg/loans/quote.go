package loans

import (
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Quote is a loan as entered in the loan calculator, with the tenure in years.
type Quote struct {
	Amount            float64      `json:"amount" mapstructure:"amount" validate:"gte=50000,lte=10000000" label:"Loan Amount"`
	AnnualRatePercent float64      `json:"annualRatePercent" mapstructure:"annualRatePercent" validate:"gte=1,lte=30" label:"Interest Rate"`
	TenureYears       int          `json:"tenureYears" mapstructure:"tenureYears" validate:"gte=1,lte=30" label:"Loan Tenure"`
	Strategy          StrategyKind `json:"strategy,omitempty" mapstructure:"strategy"`
	SubsidyPercent    float64      `json:"subsidyPercent,omitempty" mapstructure:"subsidyPercent" validate:"gte=0,lte=100" label:"Subsidy"`
}

// DefaultQuote is a fifty lakh home loan over twenty years.
func DefaultQuote() Quote {
	return Quote{
		Amount:            5000000,
		AnnualRatePercent: 8.5,
		TenureYears:       20,
		Strategy:          ReducingBalance,
	}
}

// Terms converts the quote to monthly loan terms.
func (q Quote) Terms() Terms {
	return Terms{
		Principal:         q.Amount,
		AnnualRatePercent: q.AnnualRatePercent,
		TermMonths:        mathutil.TermMonths(q.TenureYears) * constants.MonthsPerYear,
	}.Sanitize()
}

// EMIStrategy is the amortization strategy the quote asks for. Unknown
// strategy names fall back to reducing balance.
func (q Quote) EMIStrategy() Strategy {
	kind, err := ParseStrategyKind(string(q.Strategy))
	if err != nil {
		kind = ReducingBalance
	}
	return Strategy{Kind: kind, SubsidyPercent: q.SubsidyPercent}.Sanitize()
}

// QuoteResult is everything the loan calculator shows for a quote.
type QuoteResult struct {
	Quote          Quote              `json:"quote"`
	Schedule       Schedule           `json:"schedule"`
	YearlyBalances []YearBalance      `json:"yearlyBalances"`
	ChartBalances  []YearBalance      `json:"chartBalances"`
	Comparisons    []TenureComparison `json:"comparisons"`
}

// Calculate amortizes the quote and adds the yearly balances, their chart
// series and tenure comparisons.
func Calculate(q Quote) QuoteResult {
	terms := q.Terms()
	strategy := q.EMIStrategy()
	q.Strategy = strategy.Kind
	q.SubsidyPercent = strategy.SubsidyPercent
	yearly := YearlyBalances(terms)

	return QuoteResult{
		Quote:          q,
		Schedule:       Amortize(terms, strategy),
		YearlyBalances: yearly,
		ChartBalances:  ChartBalances(yearly),
		Comparisons:    CompareTenures(terms.Principal, terms.AnnualRatePercent, terms.TermMonths/constants.MonthsPerYear),
	}
}
