package loans

import (
	"math"
	"testing"
)

func TestYearlyBalances(t *testing.T) {
	terms := Terms{Principal: 1781000, AnnualRatePercent: 9, TermMonths: 60}
	balances := YearlyBalances(terms)

	if len(balances) != 6 {
		t.Fatalf("expected opening plus 5 years, got %d points", len(balances))
	}
	if balances[0].Year != 0 || balances[0].Balance != 1781000 {
		t.Errorf("opening point = %+v, expected year 0 at 1781000", balances[0])
	}
	if balances[5].Balance != 0 {
		t.Errorf("final year balance = %v, expected 0", balances[5].Balance)
	}
	for i := 1; i < len(balances); i++ {
		expected := math.Round(LoanBalanceAt(terms, i*12))
		if balances[i].Balance != expected {
			t.Errorf("year %d balance = %v, expected %v", i, balances[i].Balance, expected)
		}
	}
}

func TestYearlyBalancesPartialYear(t *testing.T) {
	balances := YearlyBalances(Terms{Principal: 50000, AnnualRatePercent: 10, TermMonths: 18})

	if len(balances) != 3 {
		t.Fatalf("expected 3 points for an 18 month loan, got %d", len(balances))
	}
	if balances[2].Balance != 0 {
		t.Errorf("loan should close in year 2, got balance %v", balances[2].Balance)
	}
}

func TestYearlyBalancesZeroPrincipal(t *testing.T) {
	balances := YearlyBalances(Terms{Principal: 0, AnnualRatePercent: 10, TermMonths: 120})
	if len(balances) != 1 || balances[0].Balance != 0 {
		t.Errorf("expected a single zero point, got %+v", balances)
	}
}

func TestChartBalances(t *testing.T) {
	tests := []struct {
		name          string
		years         int
		expectedYears []int
	}{
		{"Five years kept whole", 5, []int{0, 1, 2, 3, 4, 5}},
		{"Eleven years fits exactly", 11, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
		{"Twenty years every second", 20, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20}},
		{"Twenty five years keeps final", 25, []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 25}},
		{"Thirty years every third", 30, []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yearly := YearlyBalances(Terms{Principal: 3000000, AnnualRatePercent: 9, TermMonths: tt.years * 12})
			chart := ChartBalances(yearly)

			if len(chart) != len(tt.expectedYears) {
				t.Fatalf("expected %d chart points, got %d: %+v", len(tt.expectedYears), len(chart), chart)
			}
			for i, year := range tt.expectedYears {
				if chart[i].Year != year {
					t.Errorf("point %d is year %d, expected %d", i, chart[i].Year, year)
				}
				if chart[i] != yearly[year] {
					t.Errorf("point %d = %+v, expected %+v", i, chart[i], yearly[year])
				}
			}
		})
	}
}

func TestCompareTenures(t *testing.T) {
	tests := []struct {
		name          string
		tenureYears   int
		expectedYears []int
	}{
		{"Both directions", 20, []int{15, 25}},
		{"Short tenure only lengthens", 5, []int{10}},
		{"Long tenure only shortens", 28, []int{23}},
		{"Below one year sanitized", 0, []int{6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comparisons := CompareTenures(5000000, 8.5, tt.tenureYears)
			if len(comparisons) != len(tt.expectedYears) {
				t.Fatalf("expected %d comparisons, got %d", len(tt.expectedYears), len(comparisons))
			}
			for i, years := range tt.expectedYears {
				if comparisons[i].TenureYears != years {
					t.Errorf("comparison %d tenure = %d, expected %d", i, comparisons[i].TenureYears, years)
				}
			}
		})
	}
}

func TestCompareTenuresDirection(t *testing.T) {
	comparisons := CompareTenures(5000000, 8.5, 20)

	shorter, longer := comparisons[0], comparisons[1]
	if shorter.EMIDelta <= 0 || shorter.InterestDelta >= 0 {
		t.Errorf("shorter tenure should raise EMI and cut interest, got %+v", shorter)
	}
	if longer.EMIDelta >= 0 || longer.InterestDelta <= 0 {
		t.Errorf("longer tenure should cut EMI and raise interest, got %+v", longer)
	}
	if shorter.EMIDelta != math.Trunc(shorter.EMIDelta) {
		t.Errorf("deltas should be whole rupees, got %v", shorter.EMIDelta)
	}
}
