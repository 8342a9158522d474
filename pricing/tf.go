package pricing

import (
	"math"

	"github.com/meenmo/hybridval/pricing/config"
)

// NodeFlag tags the decision made at a lattice node.
type NodeFlag string

const (
	FlagHold            NodeFlag = "HOLD"
	FlagMatConvert      NodeFlag = "MAT_CONVERT"
	FlagMatParticipate  NodeFlag = "MAT_PARTICIPATE"
	FlagMatRedeem       NodeFlag = "MAT_REDEEM"
	FlagConvert         NodeFlag = "CONVERT"
	FlagCalledForceConv NodeFlag = "CALLED_FORCE_CONV"
	FlagCalled          NodeFlag = "CALLED"
	FlagPut             NodeFlag = "PUT"

	// ESO-only flags.
	FlagMaturityExercise NodeFlag = "MATURITY_EXERCISE"
	FlagMaturityLapse    NodeFlag = "MATURITY_LAPSE"
	FlagExerciseSubopt   NodeFlag = "EXERCISE_SUBOPT"
	FlagUnvested         NodeFlag = "UNVESTED"
)

// tfRow is one backward-induction row of the TF lattice: D (host/debt carry)
// and E (converted-equity carry) legs, plus the decision flag, for node
// indices i = 0..t.
type tfRow struct {
	D    []float64
	E    []float64
	Flag []NodeFlag
}

func newTFRow(size int) tfRow {
	return tfRow{D: make([]float64, size), E: make([]float64, size), Flag: make([]NodeFlag, size)}
}

// priceTF runs the backward induction for RCPS, CB, and CPS (§4.6).
func priceTF(sec *TFSecurity, dc dealCurves, cfg config.Config) (PricingResult, error) {
	common := sec.CommonFields
	tf := sec.TFFields

	grid := BuildGrid(common.ValuationDate, common.MaturityDate, cfg)
	if grid.Degenerate {
		return zeroResult(common, grid), nil
	}

	n := grid.N()
	dt := grid.Dt()
	lattice := BuildLattice(common.S0, common.Sigma, dt)

	units := computeUnitEconomics(common.Kind, tf, dt)

	rfRates, rfSource := resolveSecurityRiskFree(n, common, dc, grid)
	csRates, csSource := resolveSecuritySpread(n, common, dc, grid)

	cpEff := BuildRefixingSchedule(grid, tf.CP0, tf.ResetEvents, tf.AntiDilution, tf.RefixingFloor, cfg)

	hostUnit := hostDCF(units, grid, rfRates, csRates)

	isRCPS := common.Kind == KindRCPS

	// Terminal condition, t = N.
	cur := newTFRow(n + 1)
	for i := 0; i <= n; i++ {
		s := lattice.SharePrice(n, i)
		ratio := ConversionRatioAt(units.FUnit, cpEff, n, tf.ConversionRatioOverride, tf.AntiDilution)
		convBase := s * ratio
		hold := units.RUnit + units.CUnit

		conv := convBase
		participates := false
		if isRCPS && tf.Participation == Participating {
			cap := math.Inf(1)
			if tf.ParticipationCap > 0 {
				cap = units.FUnit * tf.ParticipationCap
			}
			doubleDip := math.Min(hold+convBase, cap)
			conv = math.Max(doubleDip, convBase)
			participates = conv > convBase
		}

		if conv > hold {
			cur.D[i] = 0
			cur.E[i] = conv
			if participates {
				cur.Flag[i] = FlagMatParticipate
			} else {
				cur.Flag[i] = FlagMatConvert
			}
		} else {
			cur.D[i] = hold
			cur.E[i] = 0
			cur.Flag[i] = FlagMatRedeem
		}
	}

	var nodeLogs []NodeLog
	captureRow(&nodeLogs, n, cur, cpEff[n], lattice, cfg)

	// Backward induction, t = N-1 .. 0.
	for t := n - 1; t >= 0; t-- {
		r := rfRates[t]
		cs := csRates[t]
		q := lattice.UpProbability(r)
		dfRF := math.Exp(-r * dt)
		dfRisky := math.Exp(-(r + cs) * dt)

		next := cur
		row := newTFRow(t + 1)

		ratio := ConversionRatioAt(units.FUnit, cpEff, t, tf.ConversionRatioOverride, tf.AntiDilution)
		point := grid.Points[t]

		for i := 0; i <= t; i++ {
			eD := q*next.D[i+1] + (1-q)*next.D[i]
			eE := q*next.E[i+1] + (1-q)*next.E[i]

			d := dfRisky*eD + units.CUnit
			e := dfRF * eE
			flag := FlagHold

			s := lattice.SharePrice(t, i)
			conv := s * ratio

			// 1. Voluntary conversion (holder).
			if conv > d+e {
				d, e = 0, conv
				flag = FlagConvert
			}

			// 2. Issuer call (minimizes against the already-optimized holder).
			if tf.Call.Contains(point.Date) {
				holderPayoff := math.Max(tf.Call.Price, conv)
				if holderPayoff < d+e {
					if conv > tf.Call.Price {
						d, e = 0, conv
						flag = FlagCalledForceConv
					} else {
						d, e = tf.Call.Price, 0
						flag = FlagCalled
					}
				}
			}

			// 3. Holder put (the holder's final floor).
			if tf.Put.Contains(point.Date) {
				if tf.Put.Price > d+e {
					d, e = tf.Put.Price, 0
					flag = FlagPut
				}
			}

			row.D[i] = d
			row.E[i] = e
			row.Flag[i] = flag
		}

		cur = row
		captureRow(&nodeLogs, t, cur, cpEff[t], lattice, cfg)
	}

	hybridUnit := cur.D[0] + cur.E[0]
	derivUnit := hybridUnit - hostUnit

	multiplier := 1.0
	if units.PerShare {
		multiplier = tf.Shares
	}

	signed := 1.0
	if common.Position == PositionIssuer {
		signed = -1.0
	}

	total := signed * hybridUnit * multiplier
	host := signed * hostUnit * multiplier
	deriv := signed * derivUnit * multiplier

	result := PricingResult{
		SecurityID:        common.ID,
		FairValueTotal:    total,
		FairValueHost:     host,
		FairValueDeriv:    deriv,
		TFDebtComponent:   signed * cur.D[0] * multiplier,
		TFEquityComponent: signed * cur.E[0] * multiplier,
		NodeLogs:          nodeLogs,
		Meta: Meta{
			Dt:              dt,
			U:               lattice.U,
			D:               lattice.D,
			N:               n,
			ValuationDate:   common.ValuationDate,
			MaturityDate:    common.MaturityDate,
			UsedCurveSource: string(rfSource) + "/" + string(csSource),
			EffCPFinal:      cpEff[n],
		},
	}

	if units.PerShare && tf.Shares > 0 {
		perShare := total / tf.Shares
		result.FairValuePerShare = &perShare
	}

	result.FairValueAsset = math.Max(total, 0)
	result.FairValueLiab = math.Max(-total, 0)
	result.FairValueDerivAsset = math.Max(deriv, 0)
	result.FairValueDerivLiab = math.Max(-deriv, 0)

	return result, nil
}

func captureRow(logs *[]NodeLog, t int, row tfRow, cpEff float64, lattice *Lattice, cfg config.Config) {
	if t > cfg.NodeLogMaxStep {
		return
	}
	for i := range row.D {
		*logs = append(*logs, NodeLog{
			Step:  t,
			Index: i,
			S:     lattice.SharePrice(t, i),
			D:     row.D[i],
			E:     row.E[i],
			Flag:  row.Flag[i],
			CPEff: cpEff,
		})
	}
}

func zeroResult(common CommonFields, grid *Grid) PricingResult {
	return PricingResult{
		SecurityID: common.ID,
		Meta: Meta{
			Dt:              grid.Dt(),
			N:               grid.N(),
			ValuationDate:   common.ValuationDate,
			MaturityDate:    common.MaturityDate,
			UsedCurveSource: string(RateSourceFlat),
		},
	}
}
