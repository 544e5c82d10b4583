package pricing

import (
	"fmt"
	"strings"

	"github.com/truenorthpos/pricing-api/internal/money"
	"github.com/truenorthpos/pricing-api/internal/tax"
)

// Options carries the per-call registry overrides. The zero value uses the
// built-in tier and province registries.
type Options struct {
	Tiers    map[string]Tier
	TaxRules map[string]tax.Rule
}

// OrderInput describes a cart to be priced as a whole.
type OrderInput struct {
	Items                []LineItemInput
	OrderDiscountPercent float64
	OrderDiscountCents   money.Cents
	Province             string
	CustomerTier         string
	IsTaxExempt          bool
}

// OrderResult aggregates priced lines with the order-level discount, tax
// breakdown, margin and display strings.
type OrderResult struct {
	Lines                   []LineItemResult
	SubtotalCents           money.Cents
	OrderDiscountCents      money.Cents
	DiscountedSubtotalCents money.Cents
	TaxableAmountCents      money.Cents
	Tax                     tax.Result
	GrandTotalCents         money.Cents
	TotalCostCents          money.Cents
	MarginCents             money.Cents
	MarginPercent           float64
	FormattedSubtotal       string
	FormattedDiscount       string
	FormattedTax            string
	FormattedGrandTotal     string
}

// LineError wraps a per-line validation failure with its 1-based position so
// callers can point at the offending row.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap exposes the underlying validation error to errors.Is/As.
func (e *LineError) Unwrap() error { return e.Err }

// CalculateOrder prices every line, applies the order-level discount capped
// at the subtotal, apportions it between taxable and exempt lines, computes
// provincial tax on the taxable share and derives the grand total. Any line
// failure aborts the whole order.
func CalculateOrder(in OrderInput, opts Options) (OrderResult, error) {
	if err := money.ValidateNumber(in.OrderDiscountPercent, "orderDiscountPercent", money.ValidateOptions{
		AllowZero: true,
		Max:       money.Float64Ptr(100),
	}); err != nil {
		return OrderResult{}, err
	}
	if err := money.ValidateCents(in.OrderDiscountCents, "orderDiscountAmount", money.ValidateOptions{AllowZero: true}); err != nil {
		return OrderResult{}, err
	}

	lines := make([]LineItemResult, 0, len(in.Items))
	var subtotal, taxableSubtotal, totalCost money.Cents
	for i, item := range in.Items {
		if strings.TrimSpace(item.CustomerTier) == "" {
			item.CustomerTier = in.CustomerTier
		}
		line, err := CalculateLine(item, opts.Tiers)
		if err != nil {
			return OrderResult{}, &LineError{Line: i + 1, Err: err}
		}
		lines = append(lines, line)
		subtotal += line.LineTotalCents
		totalCost += line.TotalCostCents
		if !line.IsTaxExempt {
			taxableSubtotal += line.LineTotalCents
		}
	}

	orderDiscount := money.RoundCents(float64(subtotal)*in.OrderDiscountPercent/100) + in.OrderDiscountCents
	if orderDiscount > subtotal {
		orderDiscount = subtotal
	}
	discountedSubtotal := subtotal - orderDiscount

	// The order discount is apportioned by the taxable share of the subtotal
	// so a single global discount cannot skew the exempt/non-exempt split.
	var taxableAmount money.Cents
	if !in.IsTaxExempt && subtotal > 0 {
		taxableRatio := float64(taxableSubtotal) / float64(subtotal)
		apportioned := money.RoundCents(float64(orderDiscount) * taxableRatio)
		taxableAmount = taxableSubtotal - apportioned
	}

	taxRes := tax.CalculateWith(opts.TaxRules, taxableAmount, in.Province, in.IsTaxExempt)
	grandTotal := discountedSubtotal + taxRes.TotalTaxCents

	margin := discountedSubtotal - totalCost
	marginPercent := 0.0
	if discountedSubtotal != 0 {
		marginPercent = float64(margin) / float64(discountedSubtotal) * 100
	}

	return OrderResult{
		Lines:                   lines,
		SubtotalCents:           subtotal,
		OrderDiscountCents:      orderDiscount,
		DiscountedSubtotalCents: discountedSubtotal,
		TaxableAmountCents:      taxableAmount,
		Tax:                     taxRes,
		GrandTotalCents:         grandTotal,
		TotalCostCents:          totalCost,
		MarginCents:             margin,
		MarginPercent:           marginPercent,
		FormattedSubtotal:       money.FormatCurrency(subtotal),
		FormattedDiscount:       money.FormatCurrency(orderDiscount),
		FormattedTax:            money.FormatCurrency(taxRes.TotalTaxCents),
		FormattedGrandTotal:     money.FormatCurrency(grandTotal),
	}, nil
}
