package tax

import "github.com/truenorthpos/pricing-api/internal/money"

// Result breaks a computed tax down by component. Exactly one of HSTCents or
// the GST/PST pair is populated depending on the province regime.
type Result struct {
	Rule               Rule
	TaxableAmountCents money.Cents
	HSTCents           money.Cents
	GSTCents           money.Cents
	PSTCents           money.Cents
	TotalTaxCents      money.Cents
	TotalCents         money.Cents
}

// Calculate computes sales tax on a taxable amount for the given province
// code using the built-in registry. Exempt or non-positive amounts produce an
// all-zero result, including the reported taxable amount.
func Calculate(amount money.Cents, province string, exempt bool) Result {
	return CalculateWith(nil, amount, province, exempt)
}

// CalculateWith behaves like Calculate against an explicit rule registry.
// A nil registry falls back to the built-in one.
func CalculateWith(rules map[string]Rule, amount money.Cents, province string, exempt bool) Result {
	rule, _ := lookup(rules, province)
	if exempt || amount <= 0 {
		return Result{Rule: rule}
	}

	res := Result{Rule: rule, TaxableAmountCents: amount}
	switch {
	case rule.HSTRate > 0:
		res.HSTCents = money.RoundCents(float64(amount) * rule.HSTRate)
	case rule.CompoundPST:
		res.GSTCents = money.RoundCents(float64(amount) * rule.GSTRate)
		// QST applies to the GST-inclusive amount, not the base alone.
		res.PSTCents = money.RoundCents(float64(amount+res.GSTCents) * rule.PSTRate)
	default:
		res.GSTCents = money.RoundCents(float64(amount) * rule.GSTRate)
		res.PSTCents = money.RoundCents(float64(amount) * rule.PSTRate)
	}
	res.TotalTaxCents = res.HSTCents + res.GSTCents + res.PSTCents
	res.TotalCents = amount + res.TotalTaxCents
	return res
}
