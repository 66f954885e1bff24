package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// Validator reports out-of-range inputs as warnings. Struct fields opt in with
// `validate` range tags and name themselves with a `label` tag. The engine can
// compute with any input, so findings never reject a request.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that names fields by their label tag, falling back
// to the JSON name.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Warnings validates s and describes every violated rule. An error is returned
// only when s cannot be validated at all.
func (v *Validator) Warnings(s interface{}) ([]string, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate %T: %w", s, err)
	}

	warnings := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		warnings = append(warnings, describe(fe))
	}
	return warnings, nil
}

func describe(fe validator.FieldError) string {
	limit := fe.Param()
	if f, err := strconv.ParseFloat(limit, 64); err == nil {
		limit = displayLimit(f)
	}

	switch fe.Tag() {
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), limit)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), limit)
	case "lte", "max":
		return fmt.Sprintf("%s cannot exceed %s", fe.Field(), limit)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Field(), limit)
	case "ltefield":
		return fmt.Sprintf("%s cannot exceed %s", fe.Field(), spaced(fe.Param()))
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}

// displayLimit writes large limits with Indian grouping and small ones as plain numbers.
func displayLimit(limit float64) string {
	if math.Abs(limit) >= 1000 {
		return format.Grouped(limit, 0)
	}
	return strconv.FormatFloat(limit, 'f', -1, 64)
}

// spaced turns a Go field name such as ProductPrice into "product price".
func spaced(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// MinimumDownPayment is the smallest down payment a lender accepts on price.
func MinimumDownPayment(price float64) float64 {
	return mathutil.NonNegative(price) * mathutil.PercentToDecimal(constants.MinDownPaymentPercent)
}

// LumpsumWarnings checks that keeping lumpsum invested still leaves the
// minimum down payment out of cash.
func LumpsumWarnings(price, cash, lumpsum float64) []string {
	var warnings []string
	maxLumpsum := math.Max(0, mathutil.NonNegative(cash)-MinimumDownPayment(price))
	if lumpsum > maxLumpsum {
		warnings = append(warnings, fmt.Sprintf(
			"Investable Lumpsum cannot exceed %s (Total Cash - Min Down Payment)",
			format.Currency(maxLumpsum)))
	}
	if down := cash - lumpsum; cash > 0 && down < MinimumDownPayment(price) {
		warnings = append(warnings, fmt.Sprintf(
			"Down payment must be at least %.0f%% of car price (%s)",
			constants.MinDownPaymentPercent, format.Currency(MinimumDownPayment(price))))
	}
	return warnings
}
