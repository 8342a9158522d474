package pricing

import (
	"github.com/meenmo/hybridval/pricing/config"
	"github.com/meenmo/hybridval/pricing/curve"
)

// dealCurves holds the deal-level zero curves bootstrapped once per
// PriceDeal call and shared across every security's Stepwise Rate Builder
// step (§4.2-§4.4).
type dealCurves struct {
	RiskFree *curve.ZeroCurve
	Spread   *curve.ZeroCurve
}

// buildDealCurves turns the deal-level tenor-keyed yield curves (if any)
// into risk-free and credit-spread zero curves. Returns a zero-value
// dealCurves when the deal carries no curve inputs, signalling
// per-security flat/stepwise fallback.
func buildDealCurves(deal *Deal, cfg config.Config) dealCurves {
	if len(deal.RiskFreeCurve) == 0 {
		return dealCurves{}
	}

	rfPoints := make([]curve.Point, len(deal.RiskFreeCurve))
	for i, p := range deal.RiskFreeCurve {
		rfPoints[i] = curve.Point{TenorYears: p.TenorYears, Yield: p.Yield}
	}
	rfCurve := curve.NewYieldCurve(rfPoints)
	dc := dealCurves{RiskFree: curve.Bootstrap(rfCurve)}

	if len(deal.CreditCurveCorp) == 0 {
		return dc
	}

	corpPoints := make([]curve.Point, len(deal.CreditCurveCorp))
	for i, p := range deal.CreditCurveCorp {
		corpPoints[i] = curve.Point{TenorYears: p.TenorYears, Yield: p.Yield}
	}
	corpCurve := curve.NewYieldCurve(corpPoints)
	spreadCurve := curve.SpreadCurve(rfCurve, corpCurve, cfg.StandardTenorGrid)
	dc.Spread = curve.Bootstrap(spreadCurve)

	return dc
}

func resolveSecurityRiskFree(n int, common CommonFields, dc dealCurves, grid *Grid) ([]float64, RateSource) {
	var curveDerived []float64
	if dc.RiskFree != nil {
		curveDerived = dc.RiskFree.StepwiseForwardRates(grid.Years())
	}
	return ResolveStepwiseRates(n, common.RiskFreeRate, common.StepwiseRiskFree, curveDerived)
}

func resolveSecuritySpread(n int, common CommonFields, dc dealCurves, grid *Grid) ([]float64, RateSource) {
	var curveDerived []float64
	if dc.Spread != nil {
		curveDerived = dc.Spread.StepwiseForwardRates(grid.Years())
	}
	return ResolveStepwiseRates(n, common.CreditSpread, common.StepwiseSpread, curveDerived)
}
