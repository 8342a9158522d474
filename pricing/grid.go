package pricing

import (
	"time"

	"github.com/meenmo/hybridval/pricing/config"
	"github.com/meenmo/hybridval/utils"
)

// GridPoint is a single node of the time grid.
type GridPoint struct {
	Step  int
	Date  time.Time
	Years float64 // ACT/365F year fraction from valuation
}

// Grid is the weekly step schedule from valuation to maturity, with a
// final stub pinned to maturity.
type Grid struct {
	Points      []GridPoint
	Degenerate  bool // true when MaturityDate <= ValuationDate
}

// BuildGrid constructs the time grid per spec §4.1: emit a node every
// WeeklyStrideDays days while strictly before maturity, then append a
// final node pinned to maturity (a possibly-short terminal stub).
//
// Degenerate input (maturity <= valuation) yields a two-point trivial
// grid with dt ~= 1/365.
func BuildGrid(valuation, maturity time.Time, cfg config.Config) *Grid {
	if !maturity.After(valuation) {
		return &Grid{
			Degenerate: true,
			Points: []GridPoint{
				{Step: 0, Date: valuation, Years: 0},
				{Step: 1, Date: valuation, Years: 1.0 / 365.0},
			},
		}
	}

	points := []GridPoint{{Step: 0, Date: valuation, Years: 0}}
	cur := valuation.AddDate(0, 0, cfg.WeeklyStrideDays)
	for cur.Before(maturity) {
		years := utils.Days(valuation, cur) / 365.0
		points = append(points, GridPoint{Step: len(points), Date: cur, Years: years})
		cur = cur.AddDate(0, 0, cfg.WeeklyStrideDays)
	}
	finalYears := utils.Days(valuation, maturity) / 365.0
	points = append(points, GridPoint{Step: len(points), Date: maturity, Years: finalYears})

	return &Grid{Points: points}
}

// N is the number of steps (len(Points)-1).
func (g *Grid) N() int { return len(g.Points) - 1 }

// T is the total year fraction to maturity.
func (g *Grid) T() float64 { return g.Points[len(g.Points)-1].Years }

// Dt is the (uniform, per spec) step size in years: T/N.
func (g *Grid) Dt() float64 {
	n := g.N()
	if n == 0 {
		return 0
	}
	return g.T() / float64(n)
}

// Years returns the grid's year-fraction axis, suitable for
// curve.ZeroCurve.StepwiseForwardRates.
func (g *Grid) Years() []float64 {
	out := make([]float64, len(g.Points))
	for i, p := range g.Points {
		out[i] = p.Years
	}
	return out
}
