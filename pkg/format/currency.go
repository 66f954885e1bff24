// Package format converts amounts to and from the strings shown to users:
// Indian digit grouping (12,34,567), rupee currency and word form.
package format

import (
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes formatted currency amounts.
const CurrencySymbol = "₹"

// Currency returns a whole-rupee currency string with Indian grouping (e.g., "-₹22,81,000").
func Currency(amount float64) string {
	formatted := Grouped(amount, 0)
	if strings.HasPrefix(formatted, "-") {
		return "-" + CurrencySymbol + formatted[1:]
	}
	return CurrencySymbol + formatted
}

// CurrencyPrecise returns a currency string with two decimal places (e.g., "₹36,971.65").
func CurrencyPrecise(amount float64) string {
	formatted := Grouped(amount, 2)
	if strings.HasPrefix(formatted, "-") {
		return "-" + CurrencySymbol + formatted[1:]
	}
	return CurrencySymbol + formatted
}

// indian groups digits the en-IN way: the last three digits, then pairs.
var indian = message.NewPrinter(language.MustParse("en-IN"))

// Grouped rounds amount half away from zero to places decimals and groups the
// integer part the Indian way (12,34,567).
func Grouped(amount float64, places int32) string {
	d := decimal.NewFromFloat(mathutil.Finite(amount)).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + indian.Sprint(number.Decimal(d.Abs().InexactFloat64(), number.Scale(int(places))))
}

// ParseAmount reads a user-entered amount such as "22,81,000" or "₹ 5,00,000.50".
// Anything unparseable reads as 0 so a half-typed field never fails a recompute.
func ParseAmount(value string) float64 {
	cleaned := strings.NewReplacer(",", "", CurrencySymbol, "", " ", "", "_", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
