package pricing

// RateSource documents which input populated a security's stepwise rate
// array, surfaced in PricingResult.Meta for diagnostics (§6, §9 Open
// Question 2).
type RateSource string

const (
	RateSourceStepwiseOverride RateSource = "STEPWISE_OVERRIDE"
	RateSourceCurve            RateSource = "CURVE"
	RateSourceFlat             RateSource = "FLAT"
)

// ResolveStepwiseRates implements §4.4's fallback rule: a user-supplied
// stepwise array of length >= n is used verbatim (truncated to n);
// otherwise a deal-level curve-derived array is used if available;
// otherwise the flat scalar populates a constant array.
func ResolveStepwiseRates(n int, flat float64, override, curveDerived []float64) ([]float64, RateSource) {
	if len(override) >= n {
		out := make([]float64, n)
		copy(out, override[:n])
		return out, RateSourceStepwiseOverride
	}
	if len(curveDerived) >= n {
		out := make([]float64, n)
		copy(out, curveDerived[:n])
		return out, RateSourceCurve
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = flat
	}
	return out, RateSourceFlat
}
