package finance

import (
	"math"
	"testing"
)

func TestFutureValueLumpsum(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		rate     float64
		months   int
		expected float64
	}{
		{"One year at 12%", 100000, 12, 12, 112682.50},
		{"Zero months returns principal", 50000, 13, 0, 50000},
		{"Negative months returns principal", 50000, 13, -4, 50000},
		{"Zero rate", 50000, 0, 36, 50000},
		{"Negative amount sanitized", -100, 10, 12, 0},
		{"NaN rate sanitized", 1000, math.NaN(), 12, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValueLumpsum(tt.amount, tt.rate, tt.months)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("FutureValueLumpsum(%v, %v, %d) = %.2f, expected %.2f", tt.amount, tt.rate, tt.months, got, tt.expected)
			}
		})
	}
}

func TestFutureValueSIP(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		rate     float64
		months   int
		expected float64
	}{
		{"One year at 12% annuity due", 1000, 12, 12, 12809.33},
		{"Zero rate is plain sum", 5000, 0, 24, 120000},
		{"Tiny positive rate is plain sum", 1000, 1e-15, 24, 24000},
		{"Tiny positive rate single month", 1000, 1e-15, 1, 1000},
		{"Zero months", 5000, 12, 0, 0},
		{"Negative months", 5000, 12, -1, 0},
		{"Zero contribution", 0, 12, 24, 0},
		{"Infinite contribution sanitized", math.Inf(1), 12, 24, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValueSIP(tt.amount, tt.rate, tt.months)
			if math.Abs(got-tt.expected) > 0.01 {
				t.Errorf("FutureValueSIP(%v, %v, %d) = %.2f, expected %.2f", tt.amount, tt.rate, tt.months, got, tt.expected)
			}
		})
	}
}

func TestApplyTax(t *testing.T) {
	tests := []struct {
		name        string
		gross       float64
		principal   float64
		taxPercent  float64
		expectedTax float64
		expectedNet float64
	}{
		{"Gain taxed", 150000, 100000, 12.5, 6250, 143750},
		{"Loss not taxed", 90000, 100000, 12.5, 0, 90000},
		{"Break even not taxed", 100000, 100000, 30, 0, 100000},
		{"Zero tax", 150000, 100000, 0, 0, 150000},
		{"Tax above 100 clamped", 150000, 100000, 250, 50000, 100000},
		{"Negative tax clamped", 150000, 100000, -10, 0, 150000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyTax(tt.gross, tt.principal, tt.taxPercent)
			if math.Abs(result.TaxPaid-tt.expectedTax) > 0.001 {
				t.Errorf("TaxPaid = %v, expected %v", result.TaxPaid, tt.expectedTax)
			}
			if math.Abs(result.FutureValueNet-tt.expectedNet) > 0.001 {
				t.Errorf("FutureValueNet = %v, expected %v", result.FutureValueNet, tt.expectedNet)
			}
			if result.TaxableGain < 0 {
				t.Errorf("TaxableGain should never be negative, got %v", result.TaxableGain)
			}
			if result.FutureValueNet > result.FutureValueGross {
				t.Errorf("net %v exceeds gross %v", result.FutureValueNet, result.FutureValueGross)
			}
		})
	}
}

func TestLumpsumAndSIP(t *testing.T) {
	lumpsum := Lumpsum(100000, 12, 12, 10)
	if lumpsum.PrincipalContributed != 100000 {
		t.Errorf("lumpsum principal = %v, expected 100000", lumpsum.PrincipalContributed)
	}
	if math.Abs(lumpsum.TaxPaid-1268.25) > 0.01 {
		t.Errorf("lumpsum tax = %.2f, expected 1268.25", lumpsum.TaxPaid)
	}

	sip := SIP(1000, 12, 12, 10)
	if sip.PrincipalContributed != 12000 {
		t.Errorf("sip principal = %v, expected 12000", sip.PrincipalContributed)
	}
	if math.Abs(sip.FutureValueNet-(12809.33-80.93)) > 0.01 {
		t.Errorf("sip net = %.2f, expected %.2f", sip.FutureValueNet, 12809.33-80.93)
	}
	if math.Abs(sip.Gain()-(sip.FutureValueNet-12000)) > 1e-9 {
		t.Errorf("Gain() = %v, inconsistent with net value", sip.Gain())
	}
}

func TestOpportunityReturn(t *testing.T) {
	tests := []struct {
		name             string
		balance          float64
		rate             float64
		months           int
		withdrawal       float64
		expectedInterest float64
		expectedBalance  float64
	}{
		{"No withdrawals compounds", 100000, 12, 12, 0, 12682.50, 112682.50},
		{"Zero rate drains balance", 12000, 0, 12, 1000, 0, 0},
		{"Zero months", 50000, 12, 0, 1000, 0, 50000},
		{"Instalments out of a smaller pot", 78000, 7, 6, 80000.0 / 6, 1594.34, -405.66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OpportunityReturn(tt.balance, tt.rate, tt.months, tt.withdrawal)
			if math.Abs(got.InterestEarned-tt.expectedInterest) > 0.01 {
				t.Errorf("InterestEarned = %.2f, expected %.2f", got.InterestEarned, tt.expectedInterest)
			}
			if math.Abs(got.FinalBalance-tt.expectedBalance) > 0.01 {
				t.Errorf("FinalBalance = %.2f, expected %.2f", got.FinalBalance, tt.expectedBalance)
			}
		})
	}
}
