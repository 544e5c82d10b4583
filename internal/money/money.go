package money

import (
	"fmt"
	"math"
)

// Cents is a monetary value stored in integer cents. All engine arithmetic
// stays in this representation; dollars exist only at the API boundary.
type Cents = int64

// RoundCents rounds a fractional cent amount to the nearest whole cent.
// NaN and infinite inputs yield 0 rather than poisoning downstream sums.
func RoundCents(v float64) Cents {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Cents(math.Round(v))
}

// DollarsToCents converts a dollar amount to cents, rounding to the nearest
// cent so that accumulated binary floating-point error (0.1+0.2 dollars) does
// not leak into the integer domain.
func DollarsToCents(dollars float64) Cents {
	return RoundCents(dollars * 100)
}

// CentsToDollars converts cents back to a dollar amount. Lossless round-trip
// with DollarsToCents for any integer cent value.
func CentsToDollars(c Cents) float64 {
	return float64(c) / 100
}

// FormatCurrency renders cents as a display string, e.g. 123456 -> "$1234.56".
func FormatCurrency(c Cents) string {
	return fmt.Sprintf("$%.2f", CentsToDollars(c))
}
