package pricing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/truenorthpos/pricing-api/internal/money"
	"github.com/truenorthpos/pricing-api/internal/tax"
)

func TestCalculateOrderSingleLineOntario(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 10000, Quantity: 2, DiscountPercent: 10},
		},
		Province: "ON",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SubtotalCents != 18000 {
		t.Fatalf("expected subtotal 18000, got %d", res.SubtotalCents)
	}
	if res.Tax.TotalTaxCents != 2340 {
		t.Fatalf("expected 2340 tax, got %d", res.Tax.TotalTaxCents)
	}
	if res.GrandTotalCents != 20340 {
		t.Fatalf("expected grand total 20340, got %d", res.GrandTotalCents)
	}
	if res.FormattedGrandTotal != "$203.40" {
		t.Fatalf("expected $203.40, got %s", res.FormattedGrandTotal)
	}
}

func TestCalculateOrderExemptLineSplit(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 10000, Quantity: 1},
			{UnitPriceCents: 10000, Quantity: 1, IsTaxExempt: true},
		},
		Province: "ON",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TaxableAmountCents != 10000 {
		t.Fatalf("expected taxable amount 10000, got %d", res.TaxableAmountCents)
	}
	if res.Tax.TotalTaxCents != 1300 {
		t.Fatalf("expected 1300 tax, got %d", res.Tax.TotalTaxCents)
	}
	if res.GrandTotalCents != 21300 {
		t.Fatalf("expected grand total 21300, got %d", res.GrandTotalCents)
	}
}

func TestCalculateOrderDiscountApportionment(t *testing.T) {
	// 3000/4000 of the subtotal is taxable, so 75% of the 400 discount is
	// apportioned onto the taxable share.
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 3000, Quantity: 1},
			{UnitPriceCents: 1000, Quantity: 1, IsTaxExempt: true},
		},
		OrderDiscountPercent: 10,
		Province:             "ON",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OrderDiscountCents != 400 {
		t.Fatalf("expected order discount 400, got %d", res.OrderDiscountCents)
	}
	if res.DiscountedSubtotalCents != 3600 {
		t.Fatalf("expected discounted subtotal 3600, got %d", res.DiscountedSubtotalCents)
	}
	if res.TaxableAmountCents != 2700 {
		t.Fatalf("expected taxable amount 2700, got %d", res.TaxableAmountCents)
	}
	if res.Tax.TotalTaxCents != 351 {
		t.Fatalf("expected 351 tax, got %d", res.Tax.TotalTaxCents)
	}
}

func TestCalculateOrderWholeOrderExempt(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items:       []LineItemInput{{UnitPriceCents: 5000, Quantity: 2}},
		Province:    "QC",
		IsTaxExempt: true,
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TaxableAmountCents != 0 || res.Tax.TotalTaxCents != 0 {
		t.Fatalf("exempt order must produce zero tax, got %+v", res.Tax)
	}
	if res.GrandTotalCents != res.DiscountedSubtotalCents {
		t.Fatalf("grand total must equal discounted subtotal when exempt")
	}
}

func TestCalculateOrderDiscountCap(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items:              []LineItemInput{{UnitPriceCents: 1000, Quantity: 1}},
		OrderDiscountCents: 9999,
		Province:           "ON",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OrderDiscountCents != 1000 {
		t.Fatalf("expected discount capped at subtotal, got %d", res.OrderDiscountCents)
	}
	if res.DiscountedSubtotalCents != 0 || res.GrandTotalCents != 0 {
		t.Fatalf("expected zero totals, got %+v", res)
	}
}

func TestCalculateOrderSumInvariants(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 1234, Quantity: 3, DiscountPercent: 7},
			{UnitPriceCents: 9999, Quantity: 2, DiscountAmountCents: 500},
			{UnitPriceCents: 555, Quantity: 0},
		},
		OrderDiscountPercent: 5,
		Province:             "SK",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var lineSum money.Cents
	for _, line := range res.Lines {
		lineSum += line.LineTotalCents
	}
	if lineSum != res.SubtotalCents {
		t.Fatalf("line totals sum %d != subtotal %d", lineSum, res.SubtotalCents)
	}
	if res.SubtotalCents-res.OrderDiscountCents != res.DiscountedSubtotalCents {
		t.Fatalf("discounted subtotal does not reconcile")
	}
	if res.GrandTotalCents != res.DiscountedSubtotalCents+res.Tax.TotalTaxCents {
		t.Fatalf("grand total does not reconcile")
	}
}

func TestCalculateOrderAggregateMargin(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 10000, Quantity: 1, CostCents: 6000},
			{UnitPriceCents: 10000, Quantity: 1, CostCents: 4000},
		},
		Province: "AB",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalCostCents != 10000 {
		t.Fatalf("expected total cost 10000, got %d", res.TotalCostCents)
	}
	if res.MarginCents != 10000 {
		t.Fatalf("expected margin 10000, got %d", res.MarginCents)
	}
	if res.MarginPercent != 50 {
		t.Fatalf("expected 50%% margin, got %v", res.MarginPercent)
	}
}

func TestCalculateOrderTierFallsBackToOrderLevel(t *testing.T) {
	res, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 10000, Quantity: 1},
			{UnitPriceCents: 10000, Quantity: 1, CustomerTier: "vip"},
		},
		CustomerTier: "wholesale",
		Province:     "AB",
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Lines[0].TierKey != "wholesale" {
		t.Fatalf("expected order tier on first line, got %s", res.Lines[0].TierKey)
	}
	if res.Lines[1].TierKey != "vip" {
		t.Fatalf("line tier must win over order tier, got %s", res.Lines[1].TierKey)
	}
}

func TestCalculateOrderLineErrorCarriesIndex(t *testing.T) {
	_, err := CalculateOrder(OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 1000, Quantity: 1},
			{UnitPriceCents: -1, Quantity: 1},
		},
		Province: "ON",
	}, Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LineError, got %T", err)
	}
	if lerr.Line != 2 {
		t.Fatalf("expected line 2, got %d", lerr.Line)
	}
	if !money.IsValidationError(err) {
		t.Fatalf("LineError must unwrap to the validation error")
	}
}

func TestCalculateOrderIdempotent(t *testing.T) {
	in := OrderInput{
		Items: []LineItemInput{
			{UnitPriceCents: 4999, Quantity: 3, DiscountPercent: 12.5, CostCents: 2100,
				VolumeBreaks: []VolumeBreak{PercentOffBreak(3, 5)}},
		},
		OrderDiscountPercent: 2,
		Province:             "QC",
		CustomerTier:         "preferred",
	}
	first, err := CalculateOrder(in, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := CalculateOrder(in, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input produced different results")
	}
}

func TestCalculateOrderOverrideTaxRules(t *testing.T) {
	rules := map[string]tax.Rule{
		"ON": {Code: "ON", Label: "Ontario", HSTRate: 0.05},
	}
	res, err := CalculateOrder(OrderInput{
		Items:    []LineItemInput{{UnitPriceCents: 10000, Quantity: 1}},
		Province: "ON",
	}, Options{TaxRules: rules})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tax.TotalTaxCents != 500 {
		t.Fatalf("expected override rate to apply, got %d", res.Tax.TotalTaxCents)
	}
}
