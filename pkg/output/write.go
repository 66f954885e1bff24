package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/loans"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// Write renders a loan, EMI or car result in outputFormat.
func Write(w io.Writer, outputFormat string, result interface{}) error {
	if outputFormat == constants.OutputFormatJSON {
		return JSON(w, result)
	}

	switch r := result.(type) {
	case loans.QuoteResult:
		if outputFormat == constants.OutputFormatCSV {
			return CsvLoan(w, r)
		}
		PrettyLoan(w, r)
	case costmodel.Report:
		if outputFormat == constants.OutputFormatCSV {
			return CsvEMI(w, r)
		}
		PrettyEMI(w, r)
	case strategy.ComparisonResult:
		if outputFormat == constants.OutputFormatCSV {
			return CsvCar(w, r)
		}
		PrettyCar(w, r)
	default:
		return fmt.Errorf("no output for result type %T", result)
	}
	return nil
}
