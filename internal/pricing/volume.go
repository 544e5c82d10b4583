package pricing

import (
	"sort"

	"github.com/truenorthpos/pricing-api/internal/money"
)

// BreakEffect tags how a volume break adjusts the unit price.
type BreakEffect int

const (
	// EffectFixedPrice replaces the unit price with an absolute amount.
	EffectFixedPrice BreakEffect = iota
	// EffectPercentOff discounts the base unit price by a percentage.
	EffectPercentOff
)

// VolumeBreak is a quantity threshold that re-prices a line's units. Percent
// breaks always discount the base price, never an already-discounted one.
// Threshold values must be unique within a rule set; duplicate thresholds are
// caller error and resolve in sort order.
type VolumeBreak struct {
	MinQty     int
	Effect     BreakEffect
	PriceCents money.Cents
	Percent    float64
}

// FixedPriceBreak builds a break that pins the unit price at an absolute value.
func FixedPriceBreak(minQty int, priceCents money.Cents) VolumeBreak {
	return VolumeBreak{MinQty: minQty, Effect: EffectFixedPrice, PriceCents: priceCents}
}

// PercentOffBreak builds a break that discounts the base unit price.
func PercentOffBreak(minQty int, percent float64) VolumeBreak {
	return VolumeBreak{MinQty: minQty, Effect: EffectPercentOff, Percent: percent}
}

// ResolveVolumeBreak returns the unit price after applying the highest
// qualifying threshold, along with the break that applied. When no break
// qualifies the base price is returned unchanged with a nil break.
func ResolveVolumeBreak(basePrice money.Cents, quantity int, breaks []VolumeBreak) (money.Cents, *VolumeBreak) {
	if len(breaks) == 0 || quantity <= 0 {
		return basePrice, nil
	}

	sorted := make([]VolumeBreak, len(breaks))
	copy(sorted, breaks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinQty > sorted[j].MinQty })

	for i := range sorted {
		vb := sorted[i]
		if vb.MinQty > quantity {
			continue
		}
		switch vb.Effect {
		case EffectFixedPrice:
			return vb.PriceCents, &vb
		case EffectPercentOff:
			return basePrice - money.RoundCents(float64(basePrice)*vb.Percent/100), &vb
		}
	}
	return basePrice, nil
}
