package pricing

import (
	"sort"

	"github.com/meenmo/hybridval/pricing/config"
)

// BuildRefixingSchedule pre-computes cp_eff[t] for 0 <= t <= N per spec §4.5.
//
// Refixing is deterministic and calendar-driven (never path-dependent): a
// vector, not node-level state. Events are consumed in chronological order
// as their date falls at or before the grid date; each may only lower the
// current effective conversion price, and a floor (if set) clamps from below.
func BuildRefixingSchedule(grid *Grid, cp0 float64, events []ResetEvent, adType AntiDilutionType, floor float64, cfg config.Config) []float64 {
	sorted := make([]ResetEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cpEff := make([]float64, len(grid.Points))
	current := cp0
	eventIdx := 0

	for t, point := range grid.Points {
		for eventIdx < len(sorted) && !sorted[eventIdx].Date.After(point.Date) {
			ev := sorted[eventIdx]
			eventIdx++

			if ev.NewIssuePrice >= current {
				continue
			}

			switch adType {
			case AntiDilutionFullRatchet:
				current = ev.NewIssuePrice
			case AntiDilutionWADownOnly:
				so := ev.SharesOutstandingBefore
				if so <= 0 {
					so = cfg.WAFallbackSharesOutstanding
				}
				current = current * (so + (ev.NewIssuePrice/current)*ev.NewIssueShares) / (so + ev.NewIssueShares)
			case AntiDilutionNone:
				// No refixing applied; events are recorded but ignored.
			}

			if floor > 0 && current < floor {
				current = floor
			}
		}
		cpEff[t] = current
	}

	return cpEff
}

// ConversionRatioAt returns the effective conversion ratio at step t.
//
// face_per_unit / cp_eff[t], unless an explicit override is set and
// anti-dilution is disabled, in which case the override wins.
func ConversionRatioAt(faceUnit float64, cpEff []float64, t int, override float64, adType AntiDilutionType) float64 {
	if override > 0 && adType == AntiDilutionNone {
		return override
	}
	if cpEff[t] <= 0 {
		return 0
	}
	return faceUnit / cpEff[t]
}
