package strategy

import (
	"go.uber.org/zap"
)

// Comparator runs projections and logs a summary of each.
type Comparator struct {
	logger *zap.Logger
}

// NewComparator creates a comparator. If logger is nil a no-op logger is used.
func NewComparator(logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{logger: logger}
}

// Compare projects the strategies for inputs.
func (c *Comparator) Compare(inputs Inputs) ComparisonResult {
	result := ProjectStrategies(inputs)

	for _, p := range result.Projections {
		c.logger.Debug("projected strategy",
			zap.String("op", "strategy.Compare"),
			zap.String("strategy", p.ID),
			zap.Float64("loan_amount", p.LoanAmount),
			zap.Float64("monthly_emi", p.MonthlyEMI),
			zap.Float64("total_assets", p.TotalAssets),
			zap.Float64("net_cost", p.NetCost),
		)
	}

	best := result.Best()
	c.logger.Info("car purchase comparison complete",
		zap.String("op", "strategy.Compare"),
		zap.String("best_strategy", best.ID),
		zap.Float64("asset_value_at_horizon", result.AssetValueAtHorizon),
		zap.String("delta_vs_a", result.DeltaVsA.Direction),
		zap.String("delta_vs_c", result.DeltaVsC.Direction),
	)
	return result
}
