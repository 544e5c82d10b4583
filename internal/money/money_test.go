package money

import (
	"errors"
	"math"
	"testing"
)

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want Cents
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1047.375, 1047},
		{2340.5, 2341},
		{-1.5, -2},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Fatalf("RoundCents(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := RoundCents(math.NaN()); got != 0 {
		t.Fatalf("RoundCents(NaN) = %d, want 0", got)
	}
	if got := RoundCents(math.Inf(1)); got != 0 {
		t.Fatalf("RoundCents(+Inf) = %d, want 0", got)
	}
}

func TestDollarsToCentsAbsorbsFloatDrift(t *testing.T) {
	if got := DollarsToCents(0.1 + 0.2); got != 30 {
		t.Fatalf("expected 30 cents, got %d", got)
	}
	if got := DollarsToCents(19.99); got != 1999 {
		t.Fatalf("expected 1999 cents, got %d", got)
	}
}

func TestCentsToDollarsRoundTrip(t *testing.T) {
	for _, c := range []Cents{0, 1, 99, 100, 1999, 123456789} {
		if got := DollarsToCents(CentsToDollars(c)); got != c {
			t.Fatalf("round trip of %d cents produced %d", c, got)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(123456); got != "$1234.56" {
		t.Fatalf("expected $1234.56, got %s", got)
	}
	if got := FormatCurrency(5); got != "$0.05" {
		t.Fatalf("expected $0.05, got %s", got)
	}
}

func TestValidateNumberConstraints(t *testing.T) {
	cases := []struct {
		name       string
		value      float64
		opts       ValidateOptions
		constraint string
	}{
		{"nan", math.NaN(), ValidateOptions{}, ConstraintNotANumber},
		{"negative", -1, ValidateOptions{AllowZero: true}, ConstraintNegative},
		{"zero", 0, ValidateOptions{}, ConstraintZero},
		{"below min", 0.5, ValidateOptions{AllowZero: true, Min: Float64Ptr(1)}, ConstraintBelowMin},
		{"above max", 101, ValidateOptions{AllowZero: true, Max: Float64Ptr(100)}, ConstraintAboveMax},
	}
	for _, tc := range cases {
		err := ValidateNumber(tc.value, "amount", tc.opts)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %T", tc.name, err)
		}
		if verr.Constraint != tc.constraint {
			t.Fatalf("%s: expected constraint %s, got %s", tc.name, tc.constraint, verr.Constraint)
		}
		if verr.Field != "amount" {
			t.Fatalf("%s: expected field amount, got %s", tc.name, verr.Field)
		}
	}
}

func TestValidateNumberAccepts(t *testing.T) {
	if err := ValidateNumber(0, "amount", ValidateOptions{AllowZero: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateNumber(-5, "margin", ValidateOptions{AllowNegative: true, AllowZero: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateCents(100, "unitPrice", ValidateOptions{AllowZero: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
