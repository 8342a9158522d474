package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/hybridval/bond"
	"github.com/meenmo/hybridval/pricing/config"
	"github.com/meenmo/hybridval/utils"
)

// unitEconomics derives the per-unit face, redemption, and periodic-cash
// amounts shared by the TF engine's terminal/induction logic and the host
// DCF (§4.6 "Unit of calculation").
type unitEconomics struct {
	FUnit     float64
	RUnit     float64
	CUnit     float64
	PerShare  bool // true for RCPS/CPS (per-share), false for CB (per-bond)
}

func computeUnitEconomics(kind SecurityKind, tf TFFields, dt float64) unitEconomics {
	perShare := kind != KindCB

	fUnit := tf.FTotal
	if perShare && tf.Shares > 0 {
		fUnit = tf.FTotal / tf.Shares
	}

	rUnit := fUnit * (1 + tf.RepaymentPremiumRate)

	var cUnit float64
	if perShare {
		cUnit = fUnit * (tf.CouponRate + tf.DividendRate) * dt
	} else {
		cUnit = fUnit * tf.CouponRate * dt
	}

	return unitEconomics{FUnit: fUnit, RUnit: rUnit, CUnit: cUnit, PerShare: perShare}
}

// hostDCF discounts the straight coupons and redemption on the risky
// (risk-free + credit-spread) stepwise curve. It is independent of the
// spot lattice (§3 invariants).
func hostDCF(units unitEconomics, grid *Grid, rfRates, csRates []float64) float64 {
	n := grid.N()
	dt := grid.Dt()

	host := 0.0
	dfAccum := 1.0
	for t := 0; t < n; t++ {
		dfRisky := math.Exp(-(rfRates[t] + csRates[t]) * dt)
		dfAccum *= dfRisky
		cf := units.CUnit
		if t == n-1 {
			cf += units.RUnit
		}
		host += cf * dfAccum
	}
	return host
}

// hostCashflows reconstructs the host leg as a list of dated coupon +
// redemption cashflows, reusing bond.Cashflow rather than a bespoke tuple.
// Used only by ImpliedHostYield.
func hostCashflows(units unitEconomics, grid *Grid) []bond.Cashflow {
	n := grid.N()
	cfs := make([]bond.Cashflow, 0, n)
	for t := 1; t <= n; t++ {
		cf := bond.Cashflow{Date: grid.Points[t].Date, Coupon: units.CUnit}
		if t == n {
			cf.Principal = units.RUnit
		}
		cfs = append(cfs, cf)
	}
	return cfs
}

// ImpliedHostYield recovers the flat annually-compounded yield that
// reproduces hostValue given the same cashflow list hostDCF discounts,
// via Newton-Raphson. Diagnostic only: it never feeds back into the
// lattice (no calibration, per spec Non-goals).
func ImpliedHostYield(units unitEconomics, grid *Grid, hostValue float64, cfg config.Config) (float64, error) {
	if grid == nil {
		return 0, fmt.Errorf("ImpliedHostYield: grid is required")
	}
	cfs := hostCashflows(units, grid)
	if len(cfs) == 0 || hostValue <= 0 {
		return 0, nil
	}
	valuation := grid.Points[0].Date

	y := 0.03 // initial guess, matches bond package's mid-range convention
	for iter := 0; iter < cfg.YieldSolveMaxIterations; iter++ {
		price, dPdy := dirtyPriceAndDeriv(y, valuation, cfs)
		f := price - hostValue
		if math.Abs(f) < cfg.YieldSolveTolerance {
			return y, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			break
		}
		y -= f / dPdy
		y = clampYield(y)
	}
	return y, nil
}

func dirtyPriceAndDeriv(y float64, valuation time.Time, cfs []bond.Cashflow) (float64, float64) {
	var price, deriv float64
	for _, cf := range cfs {
		t := utils.YearFraction(valuation, cf.Date, "ACT/365F")
		amt := cf.Amount()
		disc := math.Pow(1.0+y, t)
		price += amt / disc
		deriv += -t * amt / math.Pow(1.0+y, t+1)
	}
	return price, deriv
}

func clampYield(y float64) float64 {
	const lo, hi = -0.20, 1.0
	if y < lo {
		return lo
	}
	if y > hi {
		return hi
	}
	return y
}
