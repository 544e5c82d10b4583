package quote

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/truenorthpos/pricing-api/internal/common"
	"github.com/truenorthpos/pricing-api/internal/money"
	"github.com/truenorthpos/pricing-api/internal/obs"
	"github.com/truenorthpos/pricing-api/internal/pricing"
	"github.com/truenorthpos/pricing-api/internal/tax"
)

// Service is a stateless facade over the pricing engine. It fills in
// configured defaults, stamps quote metadata and records domain metrics; all
// arithmetic lives in the pricing and tax packages.
type Service struct {
	Logger          zerolog.Logger
	DefaultProvince string
	DefaultTier     string
	MaxOrderLines   int
}

// PricedOrder pairs an engine result with quote identity metadata.
type PricedOrder struct {
	QuoteID  string
	PricedAt time.Time
	Result   pricing.OrderResult
}

// PriceOrder prices a whole cart. Missing province and tier fall back to the
// configured defaults; the number of lines is bounded to keep a single
// request from monopolising the process.
func (s *Service) PriceOrder(in pricing.OrderInput) (PricedOrder, error) {
	if s.MaxOrderLines > 0 && len(in.Items) > s.MaxOrderLines {
		return PricedOrder{}, common.BadRequest("too many order lines", nil)
	}
	in.Province = s.province(in.Province)
	if strings.TrimSpace(in.CustomerTier) == "" {
		in.CustomerTier = s.DefaultTier
	}

	start := time.Now()
	result, err := pricing.CalculateOrder(in, pricing.Options{})
	if obs.QuotePricingLatency != nil {
		obs.QuotePricingLatency.Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		s.countQuote(in.Province, "error")
		return PricedOrder{}, err
	}
	s.countQuote(in.Province, "ok")

	return PricedOrder{
		QuoteID:  uuid.NewString(),
		PricedAt: time.Now().UTC(),
		Result:   result,
	}, nil
}

// PriceLine prices a single line item with the configured default tier.
func (s *Service) PriceLine(in pricing.LineItemInput) (pricing.LineItemResult, error) {
	if strings.TrimSpace(in.CustomerTier) == "" {
		in.CustomerTier = s.DefaultTier
	}
	result, err := pricing.CalculateLine(in, nil)
	if obs.LinesPricedTotal != nil {
		if err != nil {
			obs.LinesPricedTotal.WithLabelValues("error").Inc()
		} else {
			obs.LinesPricedTotal.WithLabelValues("ok").Inc()
		}
	}
	return result, err
}

// ExtractTax recovers the pre-tax amount from a tax-inclusive total.
func (s *Service) ExtractTax(total money.Cents, province string) tax.Extracted {
	province = s.province(province)
	if obs.TaxExtractTotal != nil {
		obs.TaxExtractTotal.WithLabelValues(province).Inc()
	}
	return tax.Extract(total, province)
}

// PriceForMargin solves for the unit price achieving a target margin.
func (s *Service) PriceForMargin(cost money.Cents, targetMarginPercent float64) (money.Cents, error) {
	price, err := pricing.PriceForMargin(cost, targetMarginPercent)
	if obs.MarginSolveTotal != nil {
		if err != nil {
			obs.MarginSolveTotal.WithLabelValues("error").Inc()
		} else {
			obs.MarginSolveTotal.WithLabelValues("ok").Inc()
		}
	}
	return price, err
}

func (s *Service) province(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return s.DefaultProvince
	}
	if _, ok := tax.LookupProvince(trimmed); !ok {
		// Unknown codes price as Ontario downstream; surface that in logs so
		// bad catalog data is findable.
		s.Logger.Debug().Str("province", trimmed).Msg("unknown province code, using fallback rate")
	}
	return trimmed
}

func (s *Service) countQuote(province, result string) {
	if obs.QuotesPricedTotal != nil {
		obs.QuotesPricedTotal.WithLabelValues(province, result).Inc()
	}
}
