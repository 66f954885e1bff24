package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carForm struct {
	Price   float64 `json:"price" validate:"gte=100000,lte=20000000" label:"Car Price"`
	Rate    float64 `json:"rate" validate:"gte=0,lte=30" label:"Loan Interest Rate"`
	Mileage float64 `json:"mileage" validate:"gte=1,lte=100"`
	Fuel    fuelForm
}

type fuelForm struct {
	Price float64 `validate:"gte=0,lte=500" label:"Fuel Price"`
}

type offerForm struct {
	Price    float64 `validate:"gt=0" label:"Product Price"`
	Discount float64 `validate:"ltefield=Price" label:"Discount Lost"`
}

func TestWarnings(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		form     interface{}
		expected []string
	}{
		{
			name:     "All in range",
			form:     carForm{Price: 2281000, Rate: 9, Mileage: 15, Fuel: fuelForm{Price: 100}},
			expected: nil,
		},
		{
			name: "Below minimum uses grouped limit",
			form: carForm{Price: 50000, Rate: 9, Mileage: 15},
			expected: []string{
				"Car Price must be at least 1,00,000",
			},
		},
		{
			name: "Above maximum and json name fallback",
			form: carForm{Price: 2281000, Rate: 45, Mileage: 0, Fuel: fuelForm{Price: 900}},
			expected: []string{
				"Loan Interest Rate cannot exceed 30",
				"mileage must be at least 1",
				"Fuel Price cannot exceed 500",
			},
		},
		{
			name:     "Not a number",
			form:     carForm{Price: math.NaN(), Rate: 9, Mileage: 15},
			expected: []string{"Car Price must be at least 1,00,000"},
		},
		{
			name:     "Cross field",
			form:     offerForm{Price: 1000, Discount: 5000},
			expected: []string{"Discount Lost cannot exceed price"},
		},
		{
			name:     "Greater than",
			form:     offerForm{Price: 0},
			expected: []string{"Product Price must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := v.Warnings(tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, warnings)
		})
	}
}

func TestWarningsRejectsNonStruct(t *testing.T) {
	_, err := New().Warnings(42)
	assert.Error(t, err)
}

func TestLumpsumWarnings(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		cash     float64
		lumpsum  float64
		expected int
	}{
		{"Within limit", 2281000, 500000, 100000, 0},
		{"Exactly at limit", 2281000, 500000, 157850, 0},
		{"Lumpsum too large", 2281000, 500000, 300000, 2},
		{"No cash", 2281000, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, LumpsumWarnings(tt.price, tt.cash, tt.lumpsum), tt.expected)
		})
	}
}

func TestLumpsumWarningsMessage(t *testing.T) {
	warnings := LumpsumWarnings(2281000, 500000, 300000)
	require.Len(t, warnings, 2)
	assert.Equal(t, "Investable Lumpsum cannot exceed ₹1,57,850 (Total Cash - Min Down Payment)", warnings[0])
	assert.Equal(t, "Down payment must be at least 15% of car price (₹3,42,150)", warnings[1])
}

func TestMinimumDownPayment(t *testing.T) {
	assert.InDelta(t, 342150, MinimumDownPayment(2281000), 0.001)
	assert.Equal(t, 0.0, MinimumDownPayment(-10))
}
