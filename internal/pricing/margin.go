package pricing

import (
	"errors"
	"fmt"

	"github.com/truenorthpos/pricing-api/internal/money"
)

// BoundaryError reports an inverse calculation that is mathematically
// undefined for the given input, e.g. solving for a 100% margin.
type BoundaryError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *BoundaryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsBoundaryError checks whether the error chain contains a BoundaryError.
func IsBoundaryError(err error) bool {
	var target *BoundaryError
	return errors.As(err, &target)
}

// PriceForMargin solves for the unit price that yields the target margin
// percentage over the given cost: price = cost / (1 - target/100). Margins of
// 100% or more, and negative margins, have no defined price.
func PriceForMargin(costCents money.Cents, targetMarginPercent float64) (money.Cents, error) {
	if err := money.ValidateCents(costCents, "cost", money.ValidateOptions{AllowZero: true}); err != nil {
		return 0, err
	}
	if targetMarginPercent < 0 {
		return 0, &BoundaryError{Op: "price for margin", Reason: "target margin must not be negative"}
	}
	if targetMarginPercent >= 100 {
		return 0, &BoundaryError{Op: "price for margin", Reason: "target margin must be below 100%"}
	}
	return money.RoundCents(float64(costCents) / (1 - targetMarginPercent/100)), nil
}
