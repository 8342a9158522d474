// Package pricing implements the binomial-lattice valuation engine for
// Korean-market hybrid equity-linked securities (RCPS, CB, CPS, ESO).
package pricing

import "time"

// SecurityKind discriminates the tagged security variant.
type SecurityKind string

const (
	KindRCPS SecurityKind = "RCPS"
	KindCB   SecurityKind = "CB"
	KindCPS  SecurityKind = "CPS"
	KindESO  SecurityKind = "ESO"
)

// Position is the caller's side of the security; it is applied once, at
// the very end, as a sign flip on an otherwise long (holder) valuation.
type Position string

const (
	PositionHolder Position = "HOLDER"
	PositionIssuer Position = "ISSUER"
)

// AntiDilutionType selects the refixing rule applied on a dilutive reset event.
type AntiDilutionType string

const (
	AntiDilutionNone        AntiDilutionType = "NONE"
	AntiDilutionFullRatchet AntiDilutionType = "FULL_RATCHET"
	AntiDilutionWADownOnly  AntiDilutionType = "WA_DOWN_ONLY"
)

// ParticipationType selects whether an RCPS double-dips at redemption.
type ParticipationType string

const (
	NonParticipating ParticipationType = "NON_PARTICIPATING"
	Participating    ParticipationType = "PARTICIPATING"
)

// ResetEvent is a single anti-dilution trigger in the refixing schedule.
type ResetEvent struct {
	Date                    time.Time
	NewIssuePrice           float64
	NewIssueShares          float64
	SharesOutstandingBefore float64 // 0 => fallback per config.WAFallbackSharesOutstanding
}

// Window is an American-style exercise window (issuer call or holder put).
type Window struct {
	Price float64
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within [Start, End], inclusive.
func (w *Window) Contains(d time.Time) bool {
	if w == nil {
		return false
	}
	return !d.Before(w.Start) && !d.After(w.End)
}

// CommonFields are shared across every security variant.
type CommonFields struct {
	ID            string
	Kind          SecurityKind
	S0            float64
	Sigma         float64
	ValuationDate time.Time
	MaturityDate  time.Time

	// Flat fallback rates, used when no stepwise override and no deal-level
	// curve is available.
	RiskFreeRate float64
	CreditSpread float64

	// Optional per-security stepwise overrides (length >= N => used verbatim truncated to N).
	StepwiseRiskFree []float64
	StepwiseSpread   []float64

	Position Position
}

// TFFields are the fields specific to RCPS, CB, and CPS (the "TF engine"
// instruments). CB ignores Shares (per-bond unit of calculation).
type TFFields struct {
	FTotal               float64
	Shares               float64 // n; unused for CB
	CouponRate           float64
	DividendRate         float64
	RepaymentPremiumRate float64

	CP0                     float64
	AntiDilution            AntiDilutionType
	RefixingFloor           float64 // 0 => no floor
	ResetEvents             []ResetEvent
	ConversionRatioOverride float64 // 0 => unset; only honored when AntiDilution == NONE

	Participation    ParticipationType
	ParticipationCap float64 // multiple of FUnit; 0 => uncapped

	Call *Window
	Put  *Window
}

// TFSecurity is an RCPS, CB, or CPS instrument (CommonFields.Kind distinguishes).
type TFSecurity struct {
	CommonFields
	TFFields
}

// ESOFields are the fields specific to employee stock options.
type ESOFields struct {
	NumOptions            float64
	Strike                float64
	VestingEnd            time.Time // if zero, defaults to MaturityDate
	ExitRate              float64   // lambda, annual attrition
	EarlyExerciseMultiple float64   // m; S >= m*K gates early exercise
}

// ESOSecurity is an employee stock option grant.
type ESOSecurity struct {
	CommonFields
	ESOFields
}

// Security is the tagged-union interface implemented by TFSecurity and ESOSecurity.
type Security interface {
	SecurityID() string
	SecurityKind() SecurityKind
	Common() CommonFields
}

func (s *TFSecurity) SecurityID() string { return s.CommonFields.ID }
func (s *TFSecurity) SecurityKind() SecurityKind { return s.CommonFields.Kind }
func (s *TFSecurity) Common() CommonFields { return s.CommonFields }

func (s *ESOSecurity) SecurityID() string { return s.CommonFields.ID }
func (s *ESOSecurity) SecurityKind() SecurityKind { return s.CommonFields.Kind }
func (s *ESOSecurity) Common() CommonFields { return s.CommonFields }

// CurveInput is a single deal-level tenor-keyed yield curve point, used to
// derive stepwise rate arrays when a security does not supply its own.
type CurveInput struct {
	TenorYears float64
	Yield      float64
}

// Deal is the read-only input to PriceDeal.
type Deal struct {
	DealName           string
	ValuationDate       time.Time
	SharePriceCurrent   float64
	UnderlyingNumShares float64
	Volatility          float64
	RiskFreeRate        float64
	CreditSpread        float64

	// Optional deal-level curves; when present, they take priority over a
	// security's own flat rate/spread (but not over an explicit per-security
	// stepwise override).
	RiskFreeCurve   []CurveInput
	CreditCurveCorp []CurveInput // full corporate yield curve; spread = corp - rf

	Securities []Security
}
