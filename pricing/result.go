package pricing

import "time"

// NodeLog is a single sampled lattice node, retained for parity/diagnostic
// purposes (§9 Open Question 4) — not part of the interface contract.
type NodeLog struct {
	Step  int
	Index int
	S     float64
	D     float64
	E     float64
	Flag  NodeFlag
	CPEff float64
}

// Meta carries per-security diagnostic fields.
type Meta struct {
	Dt              float64
	U               float64
	D               float64
	N               int
	ValuationDate   time.Time
	MaturityDate    time.Time
	UsedCurveSource string
	EffCPFinal      float64
}

// PricingResult is the per-security pricing output (§6).
type PricingResult struct {
	SecurityID string

	FairValueTotal float64
	// FairValuePerShare is nil for CB (per-bond instruments have no
	// meaningful per-share figure).
	FairValuePerShare *float64
	FairValueHost     float64
	FairValueDeriv    float64

	FairValueAsset      float64
	FairValueLiab       float64
	FairValueDerivAsset float64
	FairValueDerivLiab  float64

	TFDebtComponent   float64
	TFEquityComponent float64

	NodeLogs []NodeLog
	Meta     Meta
}

// DealResult aggregates per-security results into deal totals (§4.8).
type DealResult struct {
	RunID    string
	DealName string

	TotalValue float64
	TotalHost  float64
	TotalDeriv float64

	TotalAsset      float64
	TotalLiab       float64
	TotalDerivAsset float64
	TotalDerivLiab  float64

	PricePerShare *float64

	Securities []PricingResult
}
