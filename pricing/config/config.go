// Package config centralizes the solver and grid constants the pricing
// engine needs but the deal data model leaves implicit.
package config

// Config holds grid, curve, and solver parameters shared across a pricing run.
type Config struct {
	// WeeklyStrideDays is the time grid step size in calendar days.
	WeeklyStrideDays int

	// StandardTenorGrid is the tenor grid (in years) the risk-free and
	// credit-spread curves are interpolated onto.
	StandardTenorGrid []float64

	// NodeLogMaxStep caps node-log sampling to steps 0..NodeLogMaxStep.
	NodeLogMaxStep int

	// WAFallbackSharesOutstanding is used when a weighted-average reset
	// event omits shares-outstanding-before-reset.
	WAFallbackSharesOutstanding float64

	// YieldSolveTolerance is the Newton-Raphson convergence tolerance for
	// ImpliedHostYield.
	YieldSolveTolerance float64

	// YieldSolveMaxIterations bounds the ImpliedHostYield Newton-Raphson loop.
	YieldSolveMaxIterations int

	// DayCountConvention is the ACT/365F basis used throughout the engine.
	DayCountConvention string
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	WeeklyStrideDays: 7,
	StandardTenorGrid: []float64{
		0.25, 0.5, 0.75, 1, 1.5, 2, 2.5, 3, 4, 5, 7, 10,
	},
	NodeLogMaxStep:              5,
	WAFallbackSharesOutstanding: 1_000_000,
	YieldSolveTolerance:         1e-10,
	YieldSolveMaxIterations:     100,
	DayCountConvention:          "ACT/365F",
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
