package format

import (
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

// overflowWords is returned for amounts of ten digits or more (100 crore and up).
const overflowWords = "Overflow"

// Words spells out the whole-rupee part of amount in Indian English,
// e.g. 2281000 -> "Twenty Two Lakh Eighty One Thousand". Zero and negative
// amounts yield an empty string.
func Words(amount float64) string {
	whole := decimal.NewFromFloat(mathutil.Finite(amount)).IntPart()
	if whole <= 0 {
		return ""
	}
	if whole > 999999999 {
		return overflowWords
	}

	crore := whole / 10000000
	lakh := (whole / 100000) % 100
	thousand := (whole / 1000) % 100
	hundred := (whole / 100) % 10
	rest := whole % 100

	var parts []string
	appendUnit := func(n int64, unit string) {
		if n == 0 {
			return
		}
		parts = append(parts, twoDigitWords(n))
		if unit != "" {
			parts = append(parts, unit)
		}
	}
	appendUnit(crore, "Crore")
	appendUnit(lakh, "Lakh")
	appendUnit(thousand, "Thousand")
	appendUnit(hundred, "Hundred")
	appendUnit(rest, "")

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return ones[n]
	}
	return strings.TrimSpace(tens[n/10] + " " + ones[n%10])
}
