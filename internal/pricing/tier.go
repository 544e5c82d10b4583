package pricing

import (
	"sort"
	"strings"

	"github.com/truenorthpos/pricing-api/internal/money"
)

// Tier is a named customer discount class applied uniformly per unit.
type Tier struct {
	Key             string
	DiscountPercent float64
	Label           string
}

// defaultTierKey is used whenever a line names no tier or an unknown one.
const defaultTierKey = "retail"

// defaultTiers is the built-in customer tier registry.
var defaultTiers = map[string]Tier{
	"retail":    {Key: "retail", DiscountPercent: 0, Label: "Retail"},
	"preferred": {Key: "preferred", DiscountPercent: 5, Label: "Preferred"},
	"wholesale": {Key: "wholesale", DiscountPercent: 10, Label: "Wholesale"},
	"dealer":    {Key: "dealer", DiscountPercent: 15, Label: "Dealer"},
	"vip":       {Key: "vip", DiscountPercent: 20, Label: "VIP"},
}

// Tiers returns the built-in tiers sorted by discount ascending.
func Tiers() []Tier {
	out := make([]Tier, 0, len(defaultTiers))
	for _, t := range defaultTiers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DiscountPercent == out[j].DiscountPercent {
			return out[i].Key < out[j].Key
		}
		return out[i].DiscountPercent < out[j].DiscountPercent
	})
	return out
}

// LookupTier resolves a tier key against an optional override registry,
// falling back to retail for empty or unknown keys. The boolean reports
// whether the key was actually registered.
func LookupTier(key string, override map[string]Tier) (Tier, bool) {
	tiers := defaultTiers
	if override != nil {
		tiers = override
	}
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized != "" {
		if tier, ok := tiers[normalized]; ok {
			return tier, true
		}
	}
	if tier, ok := tiers[defaultTierKey]; ok {
		return tier, false
	}
	return defaultTiers[defaultTierKey], false
}

// applyTierDiscount discounts a unit price by the tier percentage and returns
// the effective price plus the per-unit discount, both in whole cents.
func applyTierDiscount(price money.Cents, tier Tier) (effective, perUnit money.Cents) {
	perUnit = money.RoundCents(float64(price) * tier.DiscountPercent / 100)
	return price - perUnit, perUnit
}
