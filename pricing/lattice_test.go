package pricing_test

import (
	"math"
	"testing"

	"github.com/meenmo/hybridval/pricing"
)

func TestBuildLattice_UDReciprocal(t *testing.T) {
	t.Parallel()

	lat := pricing.BuildLattice(10000, 0.35, 7.0/365.0)
	if math.Abs(lat.U*lat.D-1.0) > 1e-12 {
		t.Fatalf("u*d = %v, want 1", lat.U*lat.D)
	}
	if lat.U <= 1 {
		t.Fatalf("u = %v, want > 1", lat.U)
	}
}

func TestLattice_SharePriceRecombines(t *testing.T) {
	t.Parallel()

	lat := pricing.BuildLattice(100, 0.3, 7.0/365.0)
	up := lat.SharePrice(2, 2)
	down := lat.SharePrice(2, 0)
	mid := lat.SharePrice(2, 1)
	reUp := lat.SharePrice(1, 1) * lat.U
	reDown := lat.SharePrice(1, 0) * lat.D
	if math.Abs(up-reUp) > 1e-9 {
		t.Fatalf("up node mismatch: %v vs %v", up, reUp)
	}
	if math.Abs(down-reDown) > 1e-9 {
		t.Fatalf("down node mismatch: %v vs %v", down, reDown)
	}
	upThenDown := lat.SharePrice(1, 1) * lat.D
	downThenUp := lat.SharePrice(1, 0) * lat.U
	if math.Abs(mid-upThenDown) > 1e-9 || math.Abs(mid-downThenUp) > 1e-9 {
		t.Fatalf("recombining node mismatch")
	}
}

func TestUpProbability_InUnitInterval(t *testing.T) {
	t.Parallel()

	lat := pricing.BuildLattice(100, 0.35, 7.0/365.0)
	q := lat.UpProbability(0.035)
	if q <= 0 || q >= 1 {
		t.Fatalf("q = %v, want in (0,1)", q)
	}
}
