package pricing

import "math"

// Lattice holds the CRR share-price tree parameters. Node values for the
// host/debt and equity legs are kept as rolling rows by the engines rather
// than a dense (N+1)x(N+1) matrix — an O(N) per-step footprint that is
// observationally equivalent to the triangular-matrix formulation (§9).
type Lattice struct {
	S0 float64
	U  float64
	D  float64
	Dt float64
}

// BuildLattice computes u = exp(sigma*sqrt(dt)), d = 1/u.
func BuildLattice(s0, sigma, dt float64) *Lattice {
	u := math.Exp(sigma * math.Sqrt(dt))
	return &Lattice{S0: s0, U: u, D: 1.0 / u, Dt: dt}
}

// SharePrice returns S[t][i] = S0 * u^i * d^(t-i).
func (l *Lattice) SharePrice(t, i int) float64 {
	return l.S0 * math.Pow(l.U, float64(i)) * math.Pow(l.D, float64(t-i))
}

// UpProbability returns q_t = (exp(r*dt) - d) / (u - d), risk-neutral under
// the risk-free leg only.
func (l *Lattice) UpProbability(r float64) float64 {
	return (math.Exp(r*l.Dt) - l.D) / (l.U - l.D)
}
