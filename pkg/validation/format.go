// Package validation checks calculator inputs against sensible ranges and
// validates CLI options.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateTool checks that tool names one of the calculators.
func ValidateTool(tool string) error {
	switch tool {
	case constants.ToolLoan, constants.ToolEMI, constants.ToolCar:
		return nil
	}
	return fmt.Errorf("expected tool of %s, %s or %s, got %s",
		constants.ToolLoan, constants.ToolEMI, constants.ToolCar, tool)
}
