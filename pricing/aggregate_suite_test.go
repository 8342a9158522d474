package pricing_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rs/zerolog"

	"github.com/meenmo/hybridval/pricing"
)

func TestPricing(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "pricing aggregate suite")
}

// brokenSecurity implements pricing.Security but is never a *TFSecurity
// or *ESOSecurity, forcing priceOneSecurity's default branch.
type brokenSecurity struct {
	id string
}

func (b *brokenSecurity) SecurityID() string { return b.id }
func (b *brokenSecurity) SecurityKind() pricing.SecurityKind { return "UNKNOWN" }
func (b *brokenSecurity) Common() pricing.CommonFields { return pricing.CommonFields{ID: b.id} }

var _ = Describe("PriceDeal", func() {
	var valuation, maturity = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)

	It("isolates a failing security without aborting the whole deal", func() {
		good := &pricing.TFSecurity{
			CommonFields: pricing.CommonFields{
				ID:            "good-1",
				Kind:          pricing.KindCB,
				S0:            10000,
				Sigma:         0.3,
				ValuationDate: valuation,
				MaturityDate:  maturity,
				RiskFreeRate:  0.03,
				CreditSpread:  0.02,
				Position:      pricing.PositionHolder,
			},
			TFFields: pricing.TFFields{
				FTotal:       10000,
				CouponRate:   0.03,
				CP0:          1_000_000,
				AntiDilution: pricing.AntiDilutionNone,
			},
		}
		bad := &brokenSecurity{id: "bad-1"}

		deal := &pricing.Deal{
			DealName:            "mixed-deal",
			UnderlyingNumShares: 1000000,
			Securities:          []pricing.Security{good, bad},
		}

		result, err := pricing.PriceDeal(deal, zerolog.Nop())

		Expect(err).To(HaveOccurred())
		Expect(result).ToNot(BeNil())
		Expect(result.Securities).To(HaveLen(1))
		Expect(result.Securities[0].SecurityID).To(Equal("good-1"))
	})

	It("aggregates deal totals as the sum of per-security fair values", func() {
		sec1 := &pricing.TFSecurity{
			CommonFields: pricing.CommonFields{
				ID:            "cb-1",
				Kind:          pricing.KindCB,
				S0:            10000,
				Sigma:         0.25,
				ValuationDate: valuation,
				MaturityDate:  maturity,
				RiskFreeRate:  0.03,
				CreditSpread:  0.015,
				Position:      pricing.PositionHolder,
			},
			TFFields: pricing.TFFields{
				FTotal:       10000,
				CouponRate:   0.02,
				CP0:          1_000_000,
				AntiDilution: pricing.AntiDilutionNone,
			},
		}
		sec2 := &pricing.ESOSecurity{
			CommonFields: pricing.CommonFields{
				ID:            "eso-1",
				Kind:          pricing.KindESO,
				S0:            10000,
				Sigma:         0.30,
				ValuationDate: valuation,
				MaturityDate:  maturity,
				RiskFreeRate:  0.03,
				Position:      pricing.PositionHolder,
			},
			ESOFields: pricing.ESOFields{
				NumOptions:            1000,
				Strike:                10000,
				EarlyExerciseMultiple: 1.0,
			},
		}

		deal := &pricing.Deal{
			DealName:            "sum-deal",
			UnderlyingNumShares: 1000000,
			Securities:          []pricing.Security{sec1, sec2},
		}

		result, err := pricing.PriceDeal(deal, zerolog.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Securities).To(HaveLen(2))

		sum := 0.0
		for _, pr := range result.Securities {
			sum += pr.FairValueTotal
		}
		Expect(result.TotalValue).To(BeNumerically("~", sum, 1e-9))
	})

	It("reports a price-per-share only when the deal has underlying shares outstanding", func() {
		sec := &pricing.TFSecurity{
			CommonFields: pricing.CommonFields{
				ID:            "cb-2",
				Kind:          pricing.KindCB,
				S0:            10000,
				Sigma:         0.25,
				ValuationDate: valuation,
				MaturityDate:  maturity,
				RiskFreeRate:  0.03,
				CreditSpread:  0.015,
				Position:      pricing.PositionHolder,
			},
			TFFields: pricing.TFFields{
				FTotal:       10000,
				CouponRate:   0.02,
				CP0:          1_000_000,
				AntiDilution: pricing.AntiDilutionNone,
			},
		}

		dealNoShares := &pricing.Deal{DealName: "no-shares", Securities: []pricing.Security{sec}}
		result, err := pricing.PriceDeal(dealNoShares, zerolog.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.PricePerShare).To(BeNil())

		dealWithShares := &pricing.Deal{DealName: "with-shares", UnderlyingNumShares: 500000, Securities: []pricing.Security{sec}}
		result, err = pricing.PriceDeal(dealWithShares, zerolog.Nop())
		Expect(err).ToNot(HaveOccurred())
		Expect(result.PricePerShare).ToNot(BeNil())
	})
})
