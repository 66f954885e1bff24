package loans

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// StrategyKind names how the customer-facing interest of a loan is derived.
type StrategyKind string

const (
	// ReducingBalance charges interest each month on the outstanding balance.
	ReducingBalance StrategyKind = "reducing-balance"
	// FlatRate charges interest on the original principal for the full term.
	FlatRate StrategyKind = "flat-rate"
	// NoCostSubvention has a seller absorb a share of the reducing-balance interest.
	NoCostSubvention StrategyKind = "no-cost"
)

// Strategy selects the EMI variant. SubsidyPercent is only meaningful for
// NoCostSubvention and is the share (0-100) of interest the seller absorbs.
type Strategy struct {
	Kind           StrategyKind `json:"kind"`
	SubsidyPercent float64      `json:"subsidyPercent,omitempty"`
}

// ReducingBalanceEMI is the standard bank loan.
func ReducingBalanceEMI() Strategy {
	return Strategy{Kind: ReducingBalance}
}

// FlatRateEMI is a loan quoted at a flat interest rate.
func FlatRateEMI() Strategy {
	return Strategy{Kind: FlatRate}
}

// NoCostEMI is a subvented loan where subsidyPercent of the interest is paid by the seller.
func NoCostEMI(subsidyPercent float64) Strategy {
	return Strategy{Kind: NoCostSubvention, SubsidyPercent: subsidyPercent}
}

// Sanitize falls back to reducing balance for an unknown kind and clamps the subsidy to [0, 100].
func (s Strategy) Sanitize() Strategy {
	switch s.Kind {
	case FlatRate:
		return Strategy{Kind: FlatRate}
	case NoCostSubvention:
		return Strategy{Kind: NoCostSubvention, SubsidyPercent: mathutil.Clamp(mathutil.Finite(s.SubsidyPercent), 0, 100)}
	default:
		return Strategy{Kind: ReducingBalance}
	}
}

// ParseStrategyKind accepts the kind names used in configuration files and API requests.
func ParseStrategyKind(name string) (StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reducing", "reducing-balance", "reducing_balance":
		return ReducingBalance, nil
	case "flat", "flat-rate", "flat_rate":
		return FlatRate, nil
	case "no-cost", "nocost", "no_cost", "subvention":
		return NoCostSubvention, nil
	default:
		return "", fmt.Errorf("unknown EMI strategy %q", name)
	}
}
