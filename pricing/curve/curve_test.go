package curve_test

import (
	"math"
	"testing"

	"github.com/meenmo/hybridval/pricing/curve"
)

func TestYieldCurve_InterpolatesLinearly(t *testing.T) {
	t.Parallel()

	yc := curve.NewYieldCurve([]curve.Point{
		{TenorYears: 1, Yield: 0.02},
		{TenorYears: 3, Yield: 0.04},
	})

	got := yc.YieldAt(2)
	want := 0.03
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("YieldAt(2) = %v, want %v", got, want)
	}
}

func TestYieldCurve_FlatExtrapolation(t *testing.T) {
	t.Parallel()

	yc := curve.NewYieldCurve([]curve.Point{
		{TenorYears: 1, Yield: 0.02},
		{TenorYears: 3, Yield: 0.04},
	})

	if got := yc.YieldAt(0.1); got != 0.02 {
		t.Fatalf("below-range extrapolation = %v, want 0.02", got)
	}
	if got := yc.YieldAt(20); got != 0.04 {
		t.Fatalf("above-range extrapolation = %v, want 0.04", got)
	}
}

func TestZeroCurve_DFIsIdentityBootstrap(t *testing.T) {
	t.Parallel()

	yc := curve.NewYieldCurve([]curve.Point{{TenorYears: 1, Yield: 0.05}})
	zc := curve.Bootstrap(yc)

	got := zc.DF(1)
	want := math.Pow(1.05, -1)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("DF(1) = %v, want %v", got, want)
	}
}

func TestZeroCurve_StepwiseForwardRatesMatchFlatCurve(t *testing.T) {
	t.Parallel()

	yc := curve.NewYieldCurve([]curve.Point{{TenorYears: 10, Yield: 0.03}})
	zc := curve.Bootstrap(yc)

	grid := []float64{0, 1, 2, 3}
	rates := zc.StepwiseForwardRates(grid)
	if len(rates) != 3 {
		t.Fatalf("expected 3 stepwise rates, got %d", len(rates))
	}
	// A flat zero curve implies a (nearly) flat annually-compounded forward.
	for i, r := range rates {
		if math.Abs(r-0.03) > 1e-6 {
			t.Fatalf("rate[%d] = %v, want ~0.03", i, r)
		}
	}
}
