// Package money holds amounts as integer minor units so that balance
// arithmetic never drifts. Decimal values only appear at the edges.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount in hundredths of a currency unit.
type Cents int64

// Epsilon is the smallest amount that is not considered settled (0.01).
const Epsilon Cents = 1

var epsilon = decimal.New(1, -2)

// FromFloat rounds f half away from zero to the nearest cent.
func FromFloat(f float64) Cents {
	return Cents(decimal.NewFromFloat(f).Shift(2).Round(0).IntPart())
}

// FromDecimal rounds d to the nearest cent.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Parse reads a decimal string such as "12.5" or "-3.999".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Valid reports whether f can be represented as an amount.
func Valid(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Decimal returns c as an exact two-place decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns c in currency units.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// Abs returns the magnitude of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// IsZero reports whether c is below the settlement epsilon.
func (c Cents) IsZero() bool {
	return c.Abs() < Epsilon
}

// Settled reports whether an unrounded amount is below 0.01 in magnitude.
func Settled(d decimal.Decimal) bool {
	return d.Abs().LessThan(epsilon)
}

// Min returns the smaller of a and b.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// String formats c with two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
