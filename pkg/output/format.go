// Package output renders calculator results as pretty tables, CSV or JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/loans"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen, color.Bold)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

func header(w io.Writer, text string) {
	_, _ = heading.Fprintf(w, "--- %s ---\n", text)
}

// Warnings prints advisory input warnings ahead of a result.
func Warnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = warn.Fprintf(w, "warning: %s\n", warning)
	}
}

// PrettyLoan outputs the loan summary, yearly balances, tenure comparisons and
// the full amortization schedule.
func PrettyLoan(w io.Writer, result loans.QuoteResult) {
	s := result.Schedule

	header(w, fmt.Sprintf("Loan of %s at %.2f%% for %d years (%s)",
		format.Currency(result.Quote.Amount), result.Quote.AnnualRatePercent, result.Quote.TenureYears, s.Strategy.Kind))
	fmt.Fprintf(w, "Monthly EMI       | %s\n", format.CurrencyPrecise(s.MonthlyPayment))
	fmt.Fprintf(w, "Total interest    | %s\n", format.Currency(s.TotalInterest))
	if s.Strategy.Kind == loans.NoCostSubvention {
		fmt.Fprintf(w, "Standard interest | %s\n", format.Currency(s.StandardInterest))
	}
	fmt.Fprintf(w, "Total payment     | %s\n", format.Currency(s.TotalPayment))
	fmt.Fprintf(w, "Amount in words   | %s\n", format.Words(result.Quote.Amount))

	fmt.Fprintf(w, "\nYear | Balance\n")
	fmt.Fprintf(w, "____ | _______\n")
	for _, yb := range result.YearlyBalances {
		fmt.Fprintf(w, "%4d | %s\n", yb.Year, format.Currency(yb.Balance))
	}

	if len(result.Comparisons) > 0 {
		fmt.Fprintf(w, "\nTenure | EMI | Interest | EMI change | Interest change\n")
		fmt.Fprintf(w, "______ | ___ | ________ | __________ | _______________\n")
		for _, c := range result.Comparisons {
			fmt.Fprintf(w, "%2d yrs | %s | %s | %s | %s\n", c.TenureYears,
				format.Currency(c.MonthlyPayment), format.Currency(c.TotalInterest),
				signed(c.EMIDelta), signed(c.InterestDelta))
		}
	}

	fmt.Fprintf(w, "\nMonth | Principal | Interest | Balance\n")
	fmt.Fprintf(w, "_____ | _________ | ________ | _______\n")
	for _, e := range s.Entries {
		fmt.Fprintf(w, "%5d | %s | %s | %s\n", e.Period,
			format.CurrencyPrecise(e.Principal), format.CurrencyPrecise(e.Interest), format.CurrencyPrecise(e.EndingBalance))
	}
}

// PrettyEMI outputs the no-cost EMI analysis and its break-even return rate.
func PrettyEMI(w io.Writer, report costmodel.Report) {
	r := report.Result

	header(w, fmt.Sprintf("No-cost EMI on %s over %d months", format.Currency(report.Params.ProductPrice), report.Params.TenureMonths))
	fmt.Fprintf(w, "Upfront cost        | %s\n", format.CurrencyPrecise(r.UpfrontCost))
	fmt.Fprintf(w, "Monthly EMI         | %s\n", format.CurrencyPrecise(r.MonthlyEMI))
	fmt.Fprintf(w, "Processing fee      | %s\n", format.CurrencyPrecise(r.ProcessingFee))
	fmt.Fprintf(w, "GST on interest     | %s\n", format.CurrencyPrecise(r.GSTCost))
	fmt.Fprintf(w, "Total EMI payment   | %s\n", format.CurrencyPrecise(r.TotalEmiPayment))
	fmt.Fprintf(w, "Return at %.2f%%     | %s\n", report.Params.ReturnRatePercent, format.CurrencyPrecise(r.NetReturn))
	fmt.Fprintf(w, "Effective EMI cost  | %s\n", format.CurrencyPrecise(r.EffectiveEmiCost))

	if r.IsEmiBetter {
		_, _ = good.Fprintf(w, "EMI saves %s (%.2f%%)\n", format.CurrencyPrecise(r.Savings), r.SavingsPercent)
	} else {
		_, _ = bad.Fprintf(w, "Paying upfront saves %s (%.2f%%)\n", format.CurrencyPrecise(-r.Savings), r.SavingsPercent)
	}

	if report.BreakEvenReturn == nil {
		fmt.Fprintf(w, "Break-even return   | none up to %.0f%%\n", constants.BreakEvenUpperBound)
	} else {
		fmt.Fprintf(w, "Break-even return   | %.2f%%\n", *report.BreakEvenReturn)
	}
}

// PrettyCar outputs the three strategy projections side by side.
func PrettyCar(w io.Writer, result strategy.ComparisonResult) {
	in := result.Inputs
	best := result.Best()

	header(w, fmt.Sprintf("Buying a %s car with %s in hand", format.Currency(in.AssetPrice), format.Currency(in.TotalCash)))

	names := make([]string, len(result.Projections))
	for i, proj := range result.Projections {
		names[i] = fmt.Sprintf("%s: %s", proj.ID, proj.Name)
	}
	fmt.Fprintf(w, "%-20s | %s\n", "", strings.Join(names, " | "))

	row := func(label string, value func(strategy.Projection) string) {
		cells := make([]string, len(result.Projections))
		for i, proj := range result.Projections {
			cells[i] = value(proj)
		}
		fmt.Fprintf(w, "%-20s | %s\n", label, strings.Join(cells, " | "))
	}
	money := func(f func(strategy.Projection) float64) func(strategy.Projection) string {
		return func(proj strategy.Projection) string { return format.Currency(f(proj)) }
	}

	row("Down payment", money(func(p strategy.Projection) float64 { return p.DownPayment }))
	row("Loan", money(func(p strategy.Projection) float64 { return p.LoanAmount }))
	row("Term (months)", func(p strategy.Projection) string { return fmt.Sprintf("%d", p.TermMonths) })
	row("Monthly EMI", money(func(p strategy.Projection) float64 { return p.MonthlyEMI }))
	row("Interest paid", money(func(p strategy.Projection) float64 { return p.TotalInterestPaid }))
	row("Monthly investment", money(func(p strategy.Projection) float64 { return p.MonthlyInvestment }))
	row("Monthly outflow", money(func(p strategy.Projection) float64 { return p.MonthlyOutflow }))
	row("Investments (net)", money(func(p strategy.Projection) float64 { return p.InvestmentValue }))
	row("Total assets", money(func(p strategy.Projection) float64 { return p.TotalAssets }))
	row("Total outgo", money(func(p strategy.Projection) float64 { return p.TotalOutgo }))
	row("Net cost", money(func(p strategy.Projection) float64 { return p.NetCost }))

	fmt.Fprintf(w, "\nYear | Net worth (A) | Net worth (B) | Net worth (C)\n")
	fmt.Fprintf(w, "____ | _____________ | _____________ | _____________\n")
	for year := range result.Projections[0].YearlyNetWorth {
		cells := make([]string, len(result.Projections))
		for i, proj := range result.Projections {
			cells[i] = format.Currency(proj.YearlyNetWorth[year])
		}
		fmt.Fprintf(w, "%4d | %s\n", year, strings.Join(cells, " | "))
	}

	fmt.Fprintf(w, "\nCar value after 7 years | %s\n", format.Currency(result.AssetValueAtHorizon))
	if result.MonthlyFuelCost > 0 {
		fmt.Fprintf(w, "Fuel per month          | %s\n", format.Currency(result.MonthlyFuelCost))
	}
	fmt.Fprintf(w, "Cash in today's money   | %s\n", format.Currency(result.PurchasingPower))
	fmt.Fprintf(w, "Suggested lumpsum       | %s\n", format.Currency(result.SuggestedLumpsum))

	fmt.Fprintf(w, "B vs A: %s %s in assets\n", format.Currency(result.DeltaVsA.Amount), result.DeltaVsA.Direction)
	fmt.Fprintf(w, "B vs C: %s %s in assets\n", format.Currency(result.DeltaVsC.Amount), result.DeltaVsC.Direction)
	_, _ = good.Fprintf(w, "Best: %s (%s)\n", best.Name, best.ID)
}

func signed(amount float64) string {
	if amount > 0 {
		return "+" + format.Currency(amount)
	}
	return format.Currency(amount)
}
