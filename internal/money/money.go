// Package money holds the fixed-precision arithmetic used to price orders.
//
// All amounts are shopspring decimals. Sums and products are exact; rounding
// happens only in ApplyTax and RoundCurrency, to two places, half-up.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a negative or non-finite value reaches
// the arithmetic.
var ErrInvalidAmount = errors.New("invalid_amount")

// CurrencyPlaces is the number of decimal places of a currency unit.
const CurrencyPlaces = 2

// Line is the minimal shape needed to price one order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals groups the three figures shown at checkout.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// FromFloat converts a float coming from a form or JSON body.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}
	if f < 0 {
		return decimal.Zero, fmt.Errorf("%w: %v is negative", ErrInvalidAmount, f)
	}
	return decimal.NewFromFloat(f), nil
}

// Parse reads a decimal amount from text such as "4.50".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	return d, nil
}

// LineTotal returns unitPrice × quantity without rounding.
func LineTotal(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price %s", ErrInvalidAmount, unitPrice)
	}
	if quantity < 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity %d", ErrInvalidAmount, quantity)
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// SumLines adds up the exact line totals.
func SumLines(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, l := range lines {
		t, err := LineTotal(l.UnitPrice, l.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("line %d: %w", i, err)
		}
		sum = sum.Add(t)
	}
	return sum, nil
}

// ApplyTax returns subtotal × rate rounded to the currency unit.
func ApplyTax(subtotal, rate decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() || rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: subtotal %s, rate %s", ErrInvalidAmount, subtotal, rate)
	}
	return roundHalfUp(subtotal.Mul(rate)), nil
}

// RoundCurrency rounds x to two decimal places, half-up.
func RoundCurrency(x decimal.Decimal) (decimal.Decimal, error) {
	if x.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, x)
	}
	return roundHalfUp(x), nil
}

// ComputeTotals prices lines at the given tax rate.
// Total is always RoundCurrency(Subtotal) + Tax; Subtotal is left exact.
func ComputeTotals(lines []Line, rate decimal.Decimal) (Totals, error) {
	subtotal, err := SumLines(lines)
	if err != nil {
		return Totals{}, err
	}
	tax, err := ApplyTax(subtotal, rate)
	if err != nil {
		return Totals{}, err
	}
	rounded, err := RoundCurrency(subtotal)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: rounded.Add(tax)}, nil
}

// Format renders an amount for receipts, e.g. "$14.58".
func Format(x decimal.Decimal) string {
	return "$" + x.StringFixed(CurrencyPlaces)
}

// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts accepted here.
func roundHalfUp(x decimal.Decimal) decimal.Decimal {
	return x.Round(CurrencyPlaces)
}
