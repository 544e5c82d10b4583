package pricing

import (
	"github.com/truenorthpos/pricing-api/internal/money"
)

// LineItemInput carries everything needed to price one quotation line.
type LineItemInput struct {
	UnitPriceCents      money.Cents
	Quantity            int
	DiscountPercent     float64
	DiscountAmountCents money.Cents
	CostCents           money.Cents
	VolumeBreaks        []VolumeBreak
	CustomerTier        string
	IsTaxExempt         bool
}

// LineItemResult is an immutable snapshot of every intermediate and final
// amount for one priced line. Margin fields may be negative; every other
// cents field is non-negative.
type LineItemResult struct {
	Quantity                 int
	UnitPriceCents           money.Cents
	VolumeAdjustedPriceCents money.Cents
	AppliedBreak             *VolumeBreak
	TierKey                  string
	TierLabel                string
	TierDiscountPerUnitCents money.Cents
	TierDiscountCents        money.Cents
	EffectivePriceCents      money.Cents
	SubtotalCents            money.Cents
	LineDiscountCents        money.Cents
	LineTotalCents           money.Cents
	TotalCostCents           money.Cents
	MarginCents              money.Cents
	MarginPercent            float64
	IsTaxExempt              bool
}

// CalculateLine runs the deterministic line pricing pipeline: volume break on
// the raw unit price, tier discount on the adjusted price, then line-level
// percent and fixed discounts capped at the subtotal. A nil tier registry
// uses the built-in one.
func CalculateLine(in LineItemInput, tiers map[string]Tier) (LineItemResult, error) {
	if in.Quantity == 0 {
		// Zero-quantity lines price to zero without validating the remaining
		// fields, so a draft quote row never blocks the rest of the order.
		tier, _ := LookupTier(in.CustomerTier, tiers)
		return LineItemResult{
			TierKey:     tier.Key,
			TierLabel:   tier.Label,
			IsTaxExempt: in.IsTaxExempt,
		}, nil
	}

	if err := validateLine(in); err != nil {
		return LineItemResult{}, err
	}

	volumePrice, applied := ResolveVolumeBreak(in.UnitPriceCents, in.Quantity, in.VolumeBreaks)

	tier, _ := LookupTier(in.CustomerTier, tiers)
	effective, tierPerUnit := applyTierDiscount(volumePrice, tier)

	qty := money.Cents(in.Quantity)
	subtotal := effective * qty

	lineDiscount := money.RoundCents(float64(subtotal)*in.DiscountPercent/100) + in.DiscountAmountCents
	if lineDiscount > subtotal {
		lineDiscount = subtotal
	}
	lineTotal := subtotal - lineDiscount

	totalCost := in.CostCents * qty
	margin := lineTotal - totalCost
	marginPercent := 0.0
	if lineTotal != 0 {
		marginPercent = float64(margin) / float64(lineTotal) * 100
	}

	return LineItemResult{
		Quantity:                 in.Quantity,
		UnitPriceCents:           in.UnitPriceCents,
		VolumeAdjustedPriceCents: volumePrice,
		AppliedBreak:             applied,
		TierKey:                  tier.Key,
		TierLabel:                tier.Label,
		TierDiscountPerUnitCents: tierPerUnit,
		TierDiscountCents:        tierPerUnit * qty,
		EffectivePriceCents:      effective,
		SubtotalCents:            subtotal,
		LineDiscountCents:        lineDiscount,
		LineTotalCents:           lineTotal,
		TotalCostCents:           totalCost,
		MarginCents:              margin,
		MarginPercent:            marginPercent,
		IsTaxExempt:              in.IsTaxExempt,
	}, nil
}

func validateLine(in LineItemInput) error {
	if err := money.ValidateNumber(float64(in.Quantity), "quantity", money.ValidateOptions{AllowZero: true}); err != nil {
		return err
	}
	if err := money.ValidateCents(in.UnitPriceCents, "unitPrice", money.ValidateOptions{AllowZero: true}); err != nil {
		return err
	}
	if err := money.ValidateNumber(in.DiscountPercent, "discountPercent", money.ValidateOptions{
		AllowZero: true,
		Max:       money.Float64Ptr(100),
	}); err != nil {
		return err
	}
	if err := money.ValidateCents(in.DiscountAmountCents, "discountAmount", money.ValidateOptions{AllowZero: true}); err != nil {
		return err
	}
	if err := money.ValidateCents(in.CostCents, "cost", money.ValidateOptions{AllowZero: true}); err != nil {
		return err
	}
	for _, vb := range in.VolumeBreaks {
		if err := money.ValidateNumber(float64(vb.MinQty), "volumeBreak.minQty", money.ValidateOptions{
			Min: money.Float64Ptr(1),
		}); err != nil {
			return err
		}
		switch vb.Effect {
		case EffectFixedPrice:
			if err := money.ValidateCents(vb.PriceCents, "volumeBreak.price", money.ValidateOptions{AllowZero: true}); err != nil {
				return err
			}
		case EffectPercentOff:
			if err := money.ValidateNumber(vb.Percent, "volumeBreak.percent", money.ValidateOptions{
				AllowZero: true,
				Max:       money.Float64Ptr(100),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
