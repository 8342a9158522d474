package pricing

import (
	"math"

	"github.com/meenmo/hybridval/pricing/config"
)

// esoRow is one backward-induction row of the ESO lattice: a single E leg.
type esoRow struct {
	E    []float64
	Flag []NodeFlag
}

func newESORow(size int) esoRow {
	return esoRow{E: make([]float64, size), Flag: make([]NodeFlag, size)}
}

// priceESO runs the backward induction for employee stock options (§4.7).
func priceESO(sec *ESOSecurity, dc dealCurves, cfg config.Config) (PricingResult, error) {
	common := sec.CommonFields
	eso := sec.ESOFields

	grid := BuildGrid(common.ValuationDate, common.MaturityDate, cfg)
	if grid.Degenerate {
		return zeroResult(common, grid), nil
	}

	n := grid.N()
	dt := grid.Dt()
	lattice := BuildLattice(common.S0, common.Sigma, dt)

	rfRates, rfSource := resolveSecurityRiskFree(n, common, dc, grid)

	vestingEnd := eso.VestingEnd
	if vestingEnd.IsZero() {
		vestingEnd = common.MaturityDate
	}

	// Terminal condition, t = N.
	cur := newESORow(n + 1)
	for i := 0; i <= n; i++ {
		s := lattice.SharePrice(n, i)
		intrinsic := math.Max(s-eso.Strike, 0)
		cur.E[i] = intrinsic
		if intrinsic > 0 {
			cur.Flag[i] = FlagMaturityExercise
		} else {
			cur.Flag[i] = FlagMaturityLapse
		}
	}

	var nodeLogs []NodeLog
	captureESORow(&nodeLogs, n, cur, lattice, cfg)

	for t := n - 1; t >= 0; t-- {
		r := rfRates[t]
		q := lattice.UpProbability(r)
		df := math.Exp(-r * dt)

		next := cur
		row := newESORow(t + 1)

		point := grid.Points[t]
		vested := !point.Date.Before(vestingEnd)

		for i := 0; i <= t; i++ {
			continuation := df * (q*next.E[i+1] + (1-q)*next.E[i])

			e := continuation
			flag := FlagHold
			if !vested {
				flag = FlagUnvested
			} else {
				s := lattice.SharePrice(t, i)
				intrinsic := math.Max(s-eso.Strike, 0)
				allowed := s >= eso.EarlyExerciseMultiple*eso.Strike
				if allowed && intrinsic > continuation {
					e = intrinsic
					flag = FlagExerciseSubopt
				}
			}

			survival := math.Exp(-eso.ExitRate * dt)
			row.E[i] = e * survival
			row.Flag[i] = flag
		}

		cur = row
		captureESORow(&nodeLogs, t, cur, lattice, cfg)
	}

	perOption := cur.E[0]
	signed := 1.0
	if common.Position == PositionIssuer {
		signed = -1.0
	}
	total := signed * perOption * eso.NumOptions

	result := PricingResult{
		SecurityID:        common.ID,
		FairValueTotal:    total,
		FairValueHost:     0,
		FairValueDeriv:    total,
		TFDebtComponent:   0,
		TFEquityComponent: signed * perOption * eso.NumOptions,
		NodeLogs:          nodeLogs,
		Meta: Meta{
			Dt:              dt,
			U:               lattice.U,
			D:               lattice.D,
			N:               n,
			ValuationDate:   common.ValuationDate,
			MaturityDate:    common.MaturityDate,
			UsedCurveSource: string(rfSource),
		},
	}

	perShare := signed * perOption
	result.FairValuePerShare = &perShare

	result.FairValueAsset = math.Max(total, 0)
	result.FairValueLiab = math.Max(-total, 0)
	result.FairValueDerivAsset = math.Max(total, 0)
	result.FairValueDerivLiab = math.Max(-total, 0)

	return result, nil
}

func captureESORow(logs *[]NodeLog, t int, row esoRow, lattice *Lattice, cfg config.Config) {
	if t > cfg.NodeLogMaxStep {
		return
	}
	for i := range row.E {
		*logs = append(*logs, NodeLog{
			Step:  t,
			Index: i,
			S:     lattice.SharePrice(t, i),
			D:     0,
			E:     row.E[i],
			Flag:  row.Flag[i],
		})
	}
}
