// Package loans provides the amortization engine shared by the loan, EMI and
// car purchase calculators.
package loans

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Terms describes a loan: the amount borrowed, the annual interest rate in
// percent (9.0 means 9%) and the number of monthly installments.
type Terms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

// Sanitize clamps amounts and rates to be non-negative and finite and the term
// to at least one month.
func (t Terms) Sanitize() Terms {
	return Terms{
		Principal:         mathutil.NonNegative(t.Principal),
		AnnualRatePercent: mathutil.NonNegative(t.AnnualRatePercent),
		TermMonths:        mathutil.TermMonths(t.TermMonths),
	}
}

// PaymentEntry holds the values for a given installment.
type PaymentEntry struct {
	Period        int     `json:"period"`
	Payment       float64 `json:"payment"`
	Principal     float64 `json:"principal"`
	Interest      float64 `json:"interest"`
	EndingBalance float64 `json:"endingBalance"`
}

// Schedule is a complete amortization result.
//
// StandardInterest is always the reducing-balance interest for the same terms,
// the reference every strategy is derived from. TotalInterest is what the
// borrower actually pays under the chosen strategy.
type Schedule struct {
	Strategy         Strategy       `json:"strategy"`
	MonthlyPayment   float64        `json:"monthlyPayment"`
	TotalInterest    float64        `json:"totalInterest"`
	StandardInterest float64        `json:"standardInterest"`
	TotalPayment     float64        `json:"totalPayment"`
	Entries          []PaymentEntry `json:"entries"`
}

// MonthlyPayment calculates the reducing-balance EMI using the standard
// annuity formula P*r*(1+r)^n / ((1+r)^n - 1).
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	terms := Terms{Principal: principal, AnnualRatePercent: annualRatePercent, TermMonths: termMonths}.Sanitize()
	return monthlyPayment(terms)
}

func monthlyPayment(terms Terms) float64 {
	if terms.Principal <= 0 {
		return 0
	}
	n := float64(terms.TermMonths)
	r := mathutil.MonthlyRate(terms.AnnualRatePercent)
	// growth is (1+r)^n - 1, computed without cancellation for tiny rates.
	growth := math.Expm1(n * math.Log1p(r))
	if r == 0 || growth == 0 {
		return terms.Principal / n
	}
	return mathutil.Finite(terms.Principal * r * (growth + 1) / growth)
}

// InterestFor calculates one month of interest on the outstanding balance.
func InterestFor(balance, annualRatePercent float64) float64 {
	return balance * mathutil.MonthlyRate(annualRatePercent)
}

// Amortize produces the schedule for the given terms under the given strategy.
// Invalid input is sanitized rather than rejected; a zero principal yields an
// all-zero schedule with no entries.
func Amortize(terms Terms, strategy Strategy) Schedule {
	terms = terms.Sanitize()
	strategy = strategy.Sanitize()

	if terms.Principal <= 0 {
		return Schedule{Strategy: strategy, Entries: []PaymentEntry{}}
	}

	standard := reducingBalance(terms)
	if standard.MonthlyPayment == 0 {
		// The rate overflowed the annuity formula.
		return Schedule{Strategy: strategy, Entries: []PaymentEntry{}}
	}

	var schedule Schedule
	switch strategy.Kind {
	case FlatRate:
		schedule = flatRate(terms, standard.TotalInterest)
	case NoCostSubvention:
		schedule = subvention(terms, standard, strategy.SubsidyPercent)
	default:
		schedule = standard
	}
	schedule.Strategy = strategy
	return schedule
}

// LoanBalanceAt replays the reducing-balance recurrence for monthsElapsed
// installments and returns what is still owed, without building a schedule.
func LoanBalanceAt(terms Terms, monthsElapsed int) float64 {
	terms = terms.Sanitize()
	if terms.Principal <= 0 || monthsElapsed >= terms.TermMonths {
		return 0
	}
	if monthsElapsed <= 0 {
		return terms.Principal
	}

	emi := monthlyPayment(terms)
	if emi == 0 {
		return 0
	}

	balance := terms.Principal
	for month := 1; month <= monthsElapsed; month++ {
		balance, _, _ = step(balance, terms.AnnualRatePercent, emi, month == terms.TermMonths)
	}
	return balance
}

// step applies one reducing-balance installment. The principal portion never
// exceeds the balance and the final installment clears it.
func step(balance, annualRatePercent, emi float64, final bool) (remaining, principal, interest float64) {
	interest = InterestFor(balance, annualRatePercent)
	principal = mathutil.Max(0, emi-interest)
	if final || principal > balance {
		principal = balance
	}
	remaining = balance - principal
	if remaining < 0 {
		remaining = 0
	}
	return remaining, principal, interest
}

func reducingBalance(terms Terms) Schedule {
	emi := monthlyPayment(terms)
	if emi == 0 {
		return Schedule{}
	}
	n := terms.TermMonths
	r := mathutil.MonthlyRate(terms.AnnualRatePercent)

	entries := make([]PaymentEntry, 0, n)
	balance := terms.Principal
	for period := 1; period <= n; period++ {
		var principal, interest float64
		balance, principal, interest = step(balance, terms.AnnualRatePercent, emi, period == n)
		entries = append(entries, PaymentEntry{
			Period:        period,
			Payment:       principal + interest,
			Principal:     principal,
			Interest:      interest,
			EndingBalance: balance,
		})
	}

	totalInterest := 0.0
	if r > 0 {
		totalInterest = mathutil.Max(0, mathutil.Finite(emi*float64(n)-terms.Principal))
	}

	return Schedule{
		MonthlyPayment:   emi,
		TotalInterest:    totalInterest,
		StandardInterest: totalInterest,
		TotalPayment:     terms.Principal + totalInterest,
		Entries:          entries,
	}
}

// flatRate charges interest on the original principal for the whole term, so
// every installment carries the same interest.
func flatRate(terms Terms, standardInterest float64) Schedule {
	n := float64(terms.TermMonths)
	r := mathutil.MonthlyRate(terms.AnnualRatePercent)
	years := n / constants.MonthsPerYear

	totalInterest := mathutil.Finite(terms.Principal * (r * constants.MonthsPerYear) * years)
	emi := (terms.Principal + totalInterest) / n
	interest := totalInterest / n
	principalShare := terms.Principal / n

	entries := make([]PaymentEntry, 0, terms.TermMonths)
	balance := terms.Principal
	for period := 1; period <= terms.TermMonths; period++ {
		principal := principalShare
		if period == terms.TermMonths || principal > balance {
			principal = balance
		}
		balance -= principal
		if balance < 0 {
			balance = 0
		}
		entries = append(entries, PaymentEntry{
			Period:        period,
			Payment:       principal + interest,
			Principal:     principal,
			Interest:      interest,
			EndingBalance: balance,
		})
	}

	return Schedule{
		MonthlyPayment:   emi,
		TotalInterest:    totalInterest,
		StandardInterest: standardInterest,
		TotalPayment:     terms.Principal + totalInterest,
		Entries:          entries,
	}
}

// subvention passes the customer's share of the standard interest through the
// reducing-balance curve. The rest of the interest is absorbed by the seller.
func subvention(terms Terms, standard Schedule, subsidyPercent float64) Schedule {
	share := 1 - mathutil.PercentToDecimal(subsidyPercent)
	customerInterest := standard.TotalInterest * share
	n := terms.TermMonths
	emi := (terms.Principal + customerInterest) / float64(n)

	entries := make([]PaymentEntry, 0, n)
	balance := terms.Principal
	for i, reference := range standard.Entries {
		interest := reference.Interest * share
		principal := mathutil.Max(0, emi-interest)
		if i == n-1 || principal > balance {
			principal = balance
		}
		balance -= principal
		if balance < 0 {
			balance = 0
		}
		entries = append(entries, PaymentEntry{
			Period:        reference.Period,
			Payment:       principal + interest,
			Principal:     principal,
			Interest:      interest,
			EndingBalance: balance,
		})
	}

	return Schedule{
		MonthlyPayment:   emi,
		TotalInterest:    customerInterest,
		StandardInterest: standard.TotalInterest,
		TotalPayment:     terms.Principal + customerInterest,
		Entries:          entries,
	}
}
