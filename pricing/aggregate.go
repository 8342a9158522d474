package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/meenmo/hybridval/pricing/config"
)

// PriceDeal prices every security in the deal and aggregates the results
// into a DealResult (§4.8). Per-security pricing failures are isolated
// per §7: the failing security is omitted from the portfolio and its
// failure is joined into the returned error, but the rest of the deal
// still aggregates — PriceDeal never returns a nil DealResult merely
// because one security failed.
//
// logger may be the zero zerolog.Logger (writes nowhere); the CLI wires a
// console logger, matching the boundary-only logging rule in SPEC_FULL.md.
func PriceDeal(deal *Deal, logger zerolog.Logger) (*DealResult, error) {
	cfg := config.GetConfig()
	dc := buildDealCurves(deal, cfg)

	result := &DealResult{
		RunID:    uuid.NewString(),
		DealName: deal.DealName,
	}

	var errs *multierror.Error

	for _, sec := range deal.Securities {
		pr, err := priceOneSecurity(sec, dc, cfg, logger)
		if err != nil {
			errs = multierror.Append(errs, &SecurityPricingError{SecurityID: sec.SecurityID(), Err: err})
			logger.Error().Str("security_id", sec.SecurityID()).Str("security_type", string(sec.SecurityKind())).Err(err).Msg("security pricing failed, omitted from deal")
			continue
		}
		result.Securities = append(result.Securities, pr)
	}

	aggregate(result, deal)

	if errs != nil {
		return result, errs.ErrorOrNil()
	}
	return result, nil
}

// priceOneSecurity dispatches on the tagged union and recovers from any
// panic raised by an unreachable invariant violation, turning it into an
// error so the isolation boundary in PriceDeal can handle it uniformly.
func priceOneSecurity(sec Security, dc dealCurves, cfg config.Config, logger zerolog.Logger) (pr PricingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pricing: security %q panicked: %v", sec.SecurityID(), r)
		}
	}()

	logger.Debug().Str("security_id", sec.SecurityID()).Str("security_type", string(sec.SecurityKind())).Msg("pricing security")

	switch s := sec.(type) {
	case *TFSecurity:
		return priceTF(s, dc, cfg)
	case *ESOSecurity:
		return priceESO(s, dc, cfg)
	default:
		return PricingResult{}, fmt.Errorf("pricing: unknown security kind %T", sec)
	}
}

// aggregate sums per-security fair values into deal totals (§4.8). The
// asset/liability and derivative-asset/liability partitions sum
// independently of the signed total; each security's own partition is
// already non-negative.
func aggregate(result *DealResult, deal *Deal) {
	for _, pr := range result.Securities {
		result.TotalValue += pr.FairValueTotal
		result.TotalHost += pr.FairValueHost
		result.TotalDeriv += pr.FairValueDeriv
		result.TotalAsset += pr.FairValueAsset
		result.TotalLiab += pr.FairValueLiab
		result.TotalDerivAsset += pr.FairValueDerivAsset
		result.TotalDerivLiab += pr.FairValueDerivLiab
	}

	if deal.UnderlyingNumShares > 0 {
		pricePerShare := result.TotalValue / deal.UnderlyingNumShares
		result.PricePerShare = &pricePerShare
	}
}
