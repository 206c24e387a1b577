package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in euros. It is stored as an exact decimal so
// running totals never drift, and travels over the wire as a plain JSON number.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// MaxAmount is the exclusive upper bound for a single fine or reason amount.
var MaxAmount = NewAmountFromCents(100_000_000)

const (
	maxDecimals = 2
	// Exponents outside this range are rejected before any arithmetic;
	// Cmp and String rescale to a common exponent and would expand the digits.
	minExponent = -16
	maxExponent = 6
)

// NewAmount converts a float (e.g. from a seed file) into an Amount.
func NewAmount(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v)}
}

// NewAmountFromCents builds an Amount from an integer number of cents.
func NewAmountFromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -2)}
}

// ParseAmount parses a decimal string such as "7.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParseAmount is ParseAmount for constants; it panics on bad input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate reports whether a can be booked on a fine or reason.
func (a Amount) Validate() error {
	if a.IsNegative() {
		return ErrValidation("bedrag mag niet negatief zijn")
	}
	if exp := a.d.Exponent(); exp < minExponent || exp > maxExponent {
		return ErrValidation("bedrag is ongeldig")
	}
	if a.Cmp(MaxAmount) >= 0 {
		return ErrValidation(fmt.Sprintf("bedrag moet kleiner zijn dan %s", MaxAmount))
	}
	if !a.d.Equal(a.d.Truncate(maxDecimals)) {
		return ErrValidation("bedrag mag maximaal 2 decimalen hebben")
	}
	return nil
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// Cmp returns -1, 0 or +1 like decimal.Decimal.Cmp.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Float64 returns the nearest float, for spreadsheet cells and metrics.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// String renders the amount with two decimals, e.g. "12.50".
func (a Amount) String() string { return a.d.StringFixed(2) }

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string ("7.50").
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = bytes.TrimSpace(data[1 : len(data)-1])
	}
	if len(data) == 0 {
		return fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("amount %s is not a number", data)
	}
	a.d = d
	return nil
}
