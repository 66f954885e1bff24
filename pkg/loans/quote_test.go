package loans

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

func TestCalculateDefaultQuote(t *testing.T) {
	result := Calculate(DefaultQuote())

	if math.Abs(result.Schedule.MonthlyPayment-43391.16) > 0.01 {
		t.Errorf("MonthlyPayment = %.2f, expected 43391.16", result.Schedule.MonthlyPayment)
	}
	if len(result.Schedule.Entries) != 240 {
		t.Errorf("expected 240 entries, got %d", len(result.Schedule.Entries))
	}
	if len(result.YearlyBalances) != 21 {
		t.Errorf("expected 21 yearly balances, got %d", len(result.YearlyBalances))
	}
	if len(result.ChartBalances) != 11 {
		t.Errorf("expected 11 chart balances, got %d", len(result.ChartBalances))
	}
	if len(result.Comparisons) != 2 {
		t.Errorf("expected 2 tenure comparisons, got %d", len(result.Comparisons))
	}
}

func TestQuoteStrategy(t *testing.T) {
	tests := []struct {
		name            string
		quote           Quote
		expectedKind    StrategyKind
		expectedSubsidy float64
	}{
		{"Empty is reducing", Quote{}, ReducingBalance, 0},
		{"Alias accepted", Quote{Strategy: "flat"}, FlatRate, 0},
		{"Unknown falls back", Quote{Strategy: "balloon"}, ReducingBalance, 0},
		{"Subsidy kept for no-cost", Quote{Strategy: "no-cost", SubsidyPercent: 40}, NoCostSubvention, 40},
		{"Subsidy clamped", Quote{Strategy: "subvention", SubsidyPercent: 140}, NoCostSubvention, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.quote.EMIStrategy()
			if s.Kind != tt.expectedKind || s.SubsidyPercent != tt.expectedSubsidy {
				t.Errorf("EMIStrategy() = %+v, expected %s with subsidy %v", s, tt.expectedKind, tt.expectedSubsidy)
			}
		})
	}
}

func TestQuoteTermsSanitized(t *testing.T) {
	terms := Quote{Amount: -5, AnnualRatePercent: math.NaN(), TenureYears: 0}.Terms()
	if terms.Principal != 0 || terms.AnnualRatePercent != 0 || terms.TermMonths != 12 {
		t.Errorf("Terms() = %+v, expected zero principal and rate over 12 months", terms)
	}
}

func TestCalculateTenureBounds(t *testing.T) {
	tests := []struct {
		name            string
		tenureYears     int
		expectedEntries int
		expectedYearly  int
	}{
		{"Thirty years", 30, 360, 31},
		{"Century ceiling", 100, constants.MaxTermMonths, 101},
		{"Two hundred million years capped", 200000000, constants.MaxTermMonths, 101},
		{"Max int capped", math.MaxInt, constants.MaxTermMonths, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Calculate(Quote{Amount: 5000000, AnnualRatePercent: 8.5, TenureYears: tt.tenureYears})

			if len(result.Schedule.Entries) != tt.expectedEntries {
				t.Errorf("expected %d entries, got %d", tt.expectedEntries, len(result.Schedule.Entries))
			}
			if len(result.YearlyBalances) != tt.expectedYearly {
				t.Errorf("expected %d yearly balances, got %d", tt.expectedYearly, len(result.YearlyBalances))
			}
			// The stride keeps at most ChartPoints points plus the final balance.
			if len(result.ChartBalances) > constants.ChartPoints+1 {
				t.Errorf("chart has %d points, expected at most %d", len(result.ChartBalances), constants.ChartPoints+1)
			}
		})
	}
}
