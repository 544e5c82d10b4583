package tax

import "github.com/truenorthpos/pricing-api/internal/money"

// Extracted is the inverse decomposition of a tax-inclusive total.
// AmountCents + TaxCents always equals the input total; the per-component
// breakdown is recomputed forward from AmountCents and may differ from
// TaxCents by at most one cent of rounding.
type Extracted struct {
	Rule        Rule
	TotalCents  money.Cents
	AmountCents money.Cents
	TaxCents    money.Cents
	HSTCents    money.Cents
	GSTCents    money.Cents
	PSTCents    money.Cents
}

// Extract recovers the pre-tax amount and tax from a tax-inclusive total for
// the given province, using the built-in registry.
func Extract(total money.Cents, province string) Extracted {
	return ExtractWith(nil, total, province)
}

// ExtractWith behaves like Extract against an explicit rule registry.
func ExtractWith(rules map[string]Rule, total money.Cents, province string) Extracted {
	rule, _ := lookup(rules, province)
	if total <= 0 {
		return Extracted{Rule: rule}
	}

	amount := money.RoundCents(float64(total) / (1 + rule.CombinedRate()))
	forward := CalculateWith(rules, amount, province, false)
	return Extracted{
		Rule:        rule,
		TotalCents:  total,
		AmountCents: amount,
		TaxCents:    total - amount,
		HSTCents:    forward.HSTCents,
		GSTCents:    forward.GSTCents,
		PSTCents:    forward.PSTCents,
	}
}
