package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/pkg/loans"
)

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvLoan outputs the amortization schedule, one row per month.
func CsvLoan(w io.Writer, result loans.QuoteResult) error {
	records := [][]string{{"month", "payment", "principal", "interest", "balance"}}
	for _, e := range result.Schedule.Entries {
		records = append(records, []string{
			strconv.Itoa(e.Period), amount(e.Payment), amount(e.Principal), amount(e.Interest), amount(e.EndingBalance),
		})
	}
	return writeAll(w, records)
}

// CsvEMI outputs the no-cost EMI analysis as field/value rows.
func CsvEMI(w io.Writer, report costmodel.Report) error {
	r := report.Result
	breakEven := ""
	if report.BreakEvenReturn != nil {
		breakEven = amount(*report.BreakEvenReturn)
	}
	return writeAll(w, [][]string{
		{"field", "value"},
		{"upfront_cost", amount(r.UpfrontCost)},
		{"monthly_emi", amount(r.MonthlyEMI)},
		{"processing_fee", amount(r.ProcessingFee)},
		{"bank_interest", amount(r.BankInterest)},
		{"gst_cost", amount(r.GSTCost)},
		{"total_emi_payment", amount(r.TotalEmiPayment)},
		{"interest_earned", amount(r.InterestEarned)},
		{"net_return", amount(r.NetReturn)},
		{"effective_emi_cost", amount(r.EffectiveEmiCost)},
		{"savings", amount(r.Savings)},
		{"emi_better", strconv.FormatBool(r.IsEmiBetter)},
		{"break_even_return_percent", breakEven},
	})
}

// CsvCar outputs the yearly net worth of every strategy.
func CsvCar(w io.Writer, result strategy.ComparisonResult) error {
	head := []string{"year"}
	for _, p := range result.Projections {
		head = append(head, fmt.Sprintf("net worth (%s)", p.ID))
	}
	records := [][]string{head}
	if len(result.Projections) == 0 {
		return writeAll(w, records)
	}
	for year := range result.Projections[0].YearlyNetWorth {
		row := []string{strconv.Itoa(year)}
		for _, p := range result.Projections {
			row = append(row, amount(p.YearlyNetWorth[year]))
		}
		records = append(records, row)
	}
	return writeAll(w, records)
}
