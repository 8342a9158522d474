// Package dealio is the external-collaborator boundary for the pricing
// engine: it decodes a Deal from JSON and encodes a DealResult back out.
// How a Deal is fetched, edited, or persisted is a concern of surrounding
// code, not of the pricing engine itself.
package dealio

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/meenmo/hybridval/pricing"
)

// DealDoc is the on-wire representation of pricing.Deal. Dates are plain
// "2006-01-02" strings; rates and prices are decimal floats.
type DealDoc struct {
	DealName            string          `json:"deal_name"`
	ValuationDate       string          `json:"valuation_date"`
	SharePriceCurrent   float64         `json:"share_price_current"`
	UnderlyingNumShares float64         `json:"underlying_num_shares"`
	Volatility          float64         `json:"volatility"`
	RiskFreeRate        float64         `json:"risk_free_rate"`
	CreditSpread        float64         `json:"credit_spread"`
	RiskFreeCurve       []CurvePointDoc `json:"risk_free_curve,omitempty"`
	CreditCurveCorp     []CurvePointDoc `json:"credit_curve_corp,omitempty"`
	Securities          []SecurityDoc   `json:"securities"`
}

// CurvePointDoc is a single tenor-keyed yield curve point.
type CurvePointDoc struct {
	TenorYears float64 `json:"tenor_years"`
	Yield      float64 `json:"yield"`
}

// WindowDoc is an American-style exercise window.
type WindowDoc struct {
	Price float64 `json:"price"`
	Start string  `json:"start"`
	End   string  `json:"end"`
}

// ResetEventDoc is a single anti-dilution trigger.
type ResetEventDoc struct {
	Date                    string  `json:"date"`
	NewIssuePrice           float64 `json:"new_issue_price"`
	NewIssueShares          float64 `json:"new_issue_shares,omitempty"`
	SharesOutstandingBefore float64 `json:"shares_outstanding_before,omitempty"`
}

// SecurityDoc is the tagged-union wire form of pricing.Security: Kind
// selects which of the TF/ESO-specific fields apply.
type SecurityDoc struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	S0            float64 `json:"s0"`
	Sigma         float64 `json:"sigma"`
	ValuationDate string  `json:"valuation_date,omitempty"`
	MaturityDate  string  `json:"maturity_date"`
	RiskFreeRate  float64 `json:"risk_free_rate,omitempty"`
	CreditSpread  float64 `json:"credit_spread,omitempty"`

	StepwiseRiskFree []float64 `json:"stepwise_risk_free,omitempty"`
	StepwiseSpread   []float64 `json:"stepwise_spread,omitempty"`

	Position string `json:"position"`

	// TF (RCPS/CB/CPS) fields.
	FTotal                  float64         `json:"f_total,omitempty"`
	Shares                  float64         `json:"shares,omitempty"`
	CouponRate              float64         `json:"coupon_rate,omitempty"`
	DividendRate            float64         `json:"dividend_rate,omitempty"`
	RepaymentPremiumRate    float64         `json:"repayment_premium_rate,omitempty"`
	CP0                     float64         `json:"cp0,omitempty"`
	AntiDilution            string          `json:"anti_dilution,omitempty"`
	RefixingFloor           float64         `json:"refixing_floor,omitempty"`
	ResetEvents             []ResetEventDoc `json:"reset_events,omitempty"`
	ConversionRatioOverride float64         `json:"conversion_ratio_override,omitempty"`
	Participation           string          `json:"participation,omitempty"`
	ParticipationCap        float64         `json:"participation_cap,omitempty"`
	Call                    *WindowDoc      `json:"call,omitempty"`
	Put                     *WindowDoc      `json:"put,omitempty"`

	// ESO fields.
	NumOptions            float64 `json:"num_options,omitempty"`
	Strike                float64 `json:"strike,omitempty"`
	VestingEnd            string  `json:"vesting_end,omitempty"`
	ExitRate              float64 `json:"exit_rate,omitempty"`
	EarlyExerciseMultiple float64 `json:"early_exercise_multiple,omitempty"`
}

const dateLayout = "2006-01-02"

// defaultEarlyExerciseMultiple mirrors spec §9 Open Question 1: the
// source domain's default effectively disables early exercise rather
// than allowing it at any positive spot.
const defaultEarlyExerciseMultiple = 1000.0

// Decode reads a DealDoc from r and converts it into a pricing.Deal.
func Decode(r io.Reader) (*pricing.Deal, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dealio.Decode: read: %w", err)
	}

	var doc DealDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("dealio.Decode: unmarshal: %w", err)
	}

	return dealFromDoc(doc)
}

func dealFromDoc(doc DealDoc) (*pricing.Deal, error) {
	deal := &pricing.Deal{
		DealName:            doc.DealName,
		SharePriceCurrent:   doc.SharePriceCurrent,
		UnderlyingNumShares: doc.UnderlyingNumShares,
		Volatility:          doc.Volatility,
		RiskFreeRate:        doc.RiskFreeRate,
		CreditSpread:        doc.CreditSpread,
	}

	if doc.ValuationDate != "" {
		d, err := time.Parse(dateLayout, doc.ValuationDate)
		if err != nil {
			return nil, fmt.Errorf("dealio.Decode: valuation_date: %w", err)
		}
		deal.ValuationDate = d
	}

	for _, p := range doc.RiskFreeCurve {
		deal.RiskFreeCurve = append(deal.RiskFreeCurve, pricing.CurveInput{TenorYears: p.TenorYears, Yield: p.Yield})
	}
	for _, p := range doc.CreditCurveCorp {
		deal.CreditCurveCorp = append(deal.CreditCurveCorp, pricing.CurveInput{TenorYears: p.TenorYears, Yield: p.Yield})
	}

	for _, sd := range doc.Securities {
		sec, err := securityFromDoc(sd, deal.ValuationDate)
		if err != nil {
			return nil, fmt.Errorf("dealio.Decode: security %q: %w", sd.ID, err)
		}
		deal.Securities = append(deal.Securities, sec)
	}

	return deal, nil
}

func securityFromDoc(sd SecurityDoc, dealValuation time.Time) (pricing.Security, error) {
	valuation := dealValuation
	if sd.ValuationDate != "" {
		d, err := time.Parse(dateLayout, sd.ValuationDate)
		if err != nil {
			return nil, fmt.Errorf("valuation_date: %w", err)
		}
		valuation = d
	}

	maturity, err := time.Parse(dateLayout, sd.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("maturity_date: %w", err)
	}

	common := pricing.CommonFields{
		ID:               sd.ID,
		Kind:             pricing.SecurityKind(sd.Kind),
		S0:               sd.S0,
		Sigma:            sd.Sigma,
		ValuationDate:    valuation,
		MaturityDate:     maturity,
		RiskFreeRate:     sd.RiskFreeRate,
		CreditSpread:     sd.CreditSpread,
		StepwiseRiskFree: sd.StepwiseRiskFree,
		StepwiseSpread:   sd.StepwiseSpread,
		Position:         pricing.Position(sd.Position),
	}

	switch common.Kind {
	case pricing.KindRCPS, pricing.KindCB, pricing.KindCPS:
		events := make([]pricing.ResetEvent, 0, len(sd.ResetEvents))
		for _, e := range sd.ResetEvents {
			d, err := time.Parse(dateLayout, e.Date)
			if err != nil {
				return nil, fmt.Errorf("reset_events date: %w", err)
			}
			events = append(events, pricing.ResetEvent{
				Date:                    d,
				NewIssuePrice:           e.NewIssuePrice,
				NewIssueShares:          e.NewIssueShares,
				SharesOutstandingBefore: e.SharesOutstandingBefore,
			})
		}

		call, err := windowFromDoc(sd.Call)
		if err != nil {
			return nil, fmt.Errorf("call: %w", err)
		}
		put, err := windowFromDoc(sd.Put)
		if err != nil {
			return nil, fmt.Errorf("put: %w", err)
		}

		participation := pricing.NonParticipating
		if sd.Participation != "" {
			participation = pricing.ParticipationType(sd.Participation)
		}
		antiDilution := pricing.AntiDilutionNone
		if sd.AntiDilution != "" {
			antiDilution = pricing.AntiDilutionType(sd.AntiDilution)
		}

		return &pricing.TFSecurity{
			CommonFields: common,
			TFFields: pricing.TFFields{
				FTotal:                  sd.FTotal,
				Shares:                  sd.Shares,
				CouponRate:              sd.CouponRate,
				DividendRate:            sd.DividendRate,
				RepaymentPremiumRate:    sd.RepaymentPremiumRate,
				CP0:                     sd.CP0,
				AntiDilution:            antiDilution,
				RefixingFloor:           sd.RefixingFloor,
				ResetEvents:             events,
				ConversionRatioOverride: sd.ConversionRatioOverride,
				Participation:           participation,
				ParticipationCap:        sd.ParticipationCap,
				Call:                    call,
				Put:                     put,
			},
		}, nil

	case pricing.KindESO:
		vestingEnd := time.Time{}
		if sd.VestingEnd != "" {
			d, err := time.Parse(dateLayout, sd.VestingEnd)
			if err != nil {
				return nil, fmt.Errorf("vesting_end: %w", err)
			}
			vestingEnd = d
		}

		// An omitted early_exercise_multiple defaults to the spec's
		// documented "effectively disabled" value rather than 0, which
		// would gate nothing and allow early exercise at any S > 0.
		earlyExerciseMultiple := sd.EarlyExerciseMultiple
		if earlyExerciseMultiple == 0 {
			earlyExerciseMultiple = defaultEarlyExerciseMultiple
		}

		return &pricing.ESOSecurity{
			CommonFields: common,
			ESOFields: pricing.ESOFields{
				NumOptions:            sd.NumOptions,
				Strike:                sd.Strike,
				VestingEnd:            vestingEnd,
				ExitRate:              sd.ExitRate,
				EarlyExerciseMultiple: earlyExerciseMultiple,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown security kind %q", sd.Kind)
	}
}

func windowFromDoc(w *WindowDoc) (*pricing.Window, error) {
	if w == nil {
		return nil, nil
	}
	start, err := time.Parse(dateLayout, w.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(dateLayout, w.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return &pricing.Window{Price: w.Price, Start: start, End: end}, nil
}

// ResultDoc is the on-wire representation of a pricing.DealResult.
type ResultDoc struct {
	RunID    string  `json:"run_id"`
	DealName string  `json:"deal_name"`

	TotalValue float64 `json:"total_value"`
	TotalHost  float64 `json:"total_host"`
	TotalDeriv float64 `json:"total_deriv"`

	TotalAsset      float64 `json:"total_asset"`
	TotalLiab       float64 `json:"total_liab"`
	TotalDerivAsset float64 `json:"total_deriv_asset"`
	TotalDerivLiab  float64 `json:"total_deriv_liab"`

	PricePerShare *float64 `json:"price_per_share,omitempty"`

	Securities []SecurityResultDoc `json:"securities"`
}

// SecurityResultDoc is a single security's pricing output, on the wire.
type SecurityResultDoc struct {
	SecurityID        string   `json:"security_id"`
	FairValueTotal    float64  `json:"fair_value_total"`
	FairValuePerShare *float64 `json:"fair_value_per_share,omitempty"`
	FairValueHost     float64  `json:"fair_value_host"`
	FairValueDeriv    float64  `json:"fair_value_deriv"`
	TFDebtComponent   float64  `json:"tf_debt_component,omitempty"`
	TFEquityComponent float64  `json:"tf_equity_component,omitempty"`
}

// Encode converts a DealResult into its wire form and writes it to w.
func Encode(w io.Writer, result *pricing.DealResult) error {
	doc := resultToDoc(result)
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("dealio.Encode: marshal: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("dealio.Encode: write: %w", err)
	}
	return nil
}

func resultToDoc(result *pricing.DealResult) ResultDoc {
	doc := ResultDoc{
		RunID:           result.RunID,
		DealName:        result.DealName,
		TotalValue:      result.TotalValue,
		TotalHost:       result.TotalHost,
		TotalDeriv:      result.TotalDeriv,
		TotalAsset:      result.TotalAsset,
		TotalLiab:       result.TotalLiab,
		TotalDerivAsset: result.TotalDerivAsset,
		TotalDerivLiab:  result.TotalDerivLiab,
		PricePerShare:   result.PricePerShare,
	}
	for _, pr := range result.Securities {
		doc.Securities = append(doc.Securities, SecurityResultDoc{
			SecurityID:        pr.SecurityID,
			FairValueTotal:    pr.FairValueTotal,
			FairValuePerShare: pr.FairValuePerShare,
			FairValueHost:     pr.FairValueHost,
			FairValueDeriv:    pr.FairValueDeriv,
			TFDebtComponent:   pr.TFDebtComponent,
			TFEquityComponent: pr.TFEquityComponent,
		})
	}
	return doc
}
