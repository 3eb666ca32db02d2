// Package money provides exact fixed-point currency arithmetic.
//
// Amounts are stored as an integer count of minor units (cents), so sums and
// splits are exact and order-independent. Decimal strings cross the wire
// ("12.34"); binary floating point never holds an amount.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in minor units (cents).
type Amount int64

// Epsilon is the tolerance, in minor units, used by invariant checks.
// Arithmetic on Amount is exact; the tolerance only absorbs amounts that
// entered the system already rounded.
const Epsilon Amount = 1

var ErrMalformedAmount = errors.New("malformed amount")

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string like "12.34" into minor units.
// At most two fractional digits are accepted.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q has sub-cent precision", ErrMalformedAmount, s)
	}
	return Amount(cents.IntPart()), nil
}

// FromCents wraps a raw minor-unit count.
func FromCents(c int64) Amount { return Amount(c) }

// Cents returns the raw minor-unit count.
func (a Amount) Cents() int64 { return int64(a) }

// String renders the amount as a decimal string with two fractional digits.
func (a Amount) String() string {
	return decimal.New(int64(a), -2).StringFixed(2)
}

// Abs returns the magnitude of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsZero reports whether the amount is within Epsilon of zero.
func (a Amount) IsZero() bool { return a.Abs() <= Epsilon }

// MarshalJSON renders the amount as a JSON string ("12.34").
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON string holding a decimal amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: amount must be a decimal string", ErrMalformedAmount)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
