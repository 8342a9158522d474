// Package curve implements the yield interpolation, zero-rate bootstrap,
// and stepwise forward-rate extraction that feed the lattice engine.
//
// The bootstrap here is intentionally simple: each input yield is treated
// as the annually-compounded zero rate at its own tenor (documented
// approximation, not a defect — see ZeroCurve and Bootstrap).
package curve

import (
	"math"
	"sort"
)

// Point is a single (tenor in years, yield in decimal) pair.
type Point struct {
	TenorYears float64
	Yield      float64
}

// YieldCurve is a piecewise-linear yield curve with flat extrapolation
// at both ends.
type YieldCurve struct {
	points []Point // sorted ascending by TenorYears
}

// NewYieldCurve builds a YieldCurve from unordered points.
func NewYieldCurve(points []Point) *YieldCurve {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TenorYears < sorted[j].TenorYears
	})
	return &YieldCurve{points: sorted}
}

// YieldAt interpolates linearly in yield between bracketing tenors, or
// flat-extrapolates beyond the first/last pillar.
func (c *YieldCurve) YieldAt(tenorYears float64) float64 {
	if len(c.points) == 0 {
		return 0
	}
	if len(c.points) == 1 {
		return c.points[0].Yield
	}

	if tenorYears <= c.points[0].TenorYears {
		return c.points[0].Yield
	}
	last := c.points[len(c.points)-1]
	if tenorYears >= last.TenorYears {
		return last.Yield
	}

	lo, hi := c.bracket(tenorYears)
	p1, p2 := c.points[lo], c.points[hi]
	if p2.TenorYears == p1.TenorYears {
		return p1.Yield
	}
	w := (tenorYears - p1.TenorYears) / (p2.TenorYears - p1.TenorYears)
	return p1.Yield + w*(p2.Yield-p1.Yield)
}

// bracket returns the indices of the two points bracketing tenorYears
// using binary search, matching the swap curve package's findBracket idiom.
func (c *YieldCurve) bracket(tenorYears float64) (lo, hi int) {
	idx := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].TenorYears >= tenorYears
	})
	if idx <= 0 {
		return 0, 1
	}
	if idx >= len(c.points) {
		return len(c.points) - 2, len(c.points) - 1
	}
	return idx - 1, idx
}

// SpreadCurve builds the pointwise credit-spread curve (corp - rf) on the
// standard tenor grid.
func SpreadCurve(rf, corp *YieldCurve, tenorGrid []float64) *YieldCurve {
	points := make([]Point, 0, len(tenorGrid))
	for _, tenor := range tenorGrid {
		points = append(points, Point{
			TenorYears: tenor,
			Yield:      corp.YieldAt(tenor) - rf.YieldAt(tenor),
		})
	}
	return NewYieldCurve(points)
}

// ZeroCurve is the bootstrapped zero-rate curve.
//
// Bootstrap is deliberately an identity: the input yield at each tenor is
// treated directly as the annually-compounded zero rate at that tenor. A
// full recursive bootstrap (solving for successive zero rates so that each
// quoted par instrument reprices to par) is out of scope for this engine;
// this is a documented V1 approximation, not a missing feature.
type ZeroCurve struct {
	yields *YieldCurve
}

// Bootstrap constructs a ZeroCurve from a YieldCurve.
func Bootstrap(yc *YieldCurve) *ZeroCurve {
	return &ZeroCurve{yields: yc}
}

// ZeroRateAt returns the interpolated zero rate (decimal) at tenorYears.
// Interpolation between bootstrapped pillars is linear on zero rates,
// which — since the bootstrap is an identity on yield — reduces to the
// same linear interpolation as YieldCurve.YieldAt.
func (z *ZeroCurve) ZeroRateAt(tenorYears float64) float64 {
	return z.yields.YieldAt(tenorYears)
}

// DF returns the discount factor at tenorYears: (1+r)^-tenorYears.
func (z *ZeroCurve) DF(tenorYears float64) float64 {
	if tenorYears <= 0 {
		return 1.0
	}
	r := z.ZeroRateAt(tenorYears)
	return math.Pow(1.0+r, -tenorYears)
}

// StepwiseForwardRates extracts the per-step forward rate implied by the
// ratio of discount factors bracketing each [t, t+1) interval of the grid's
// year-fraction axis. Returns an array of length len(gridYears)-1.
func (z *ZeroCurve) StepwiseForwardRates(gridYears []float64) []float64 {
	if len(gridYears) < 2 {
		return nil
	}
	n := len(gridYears) - 1
	rates := make([]float64, n)
	for t := 0; t < n; t++ {
		tau1 := gridYears[t]
		tau2 := gridYears[t+1]
		dt := tau2 - tau1
		if dt <= 0 {
			rates[t] = 0
			continue
		}
		df1 := z.DF(tau1)
		df2 := z.DF(tau2)
		rates[t] = (df1/df2 - 1.0) / dt
	}
	return rates
}
