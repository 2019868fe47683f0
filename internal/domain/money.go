package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact currency amount scaled to 2 fractional digits.
// Construction is the only place rounding happens (half away from zero), so
// addition and subtraction between two Money values are always exact.
// Money is immutable: every operation returns a new value. The zero value
// is 0.00.
type Money struct {
	amount decimal.Decimal
}

// ParseMoney converts textual input into a Money value. A comma decimal
// separator is normalized to a period and surrounding whitespace is trimmed,
// so user input like "100,50" parses as 100.50. The conversion goes through
// an exact decimal path, never a binary float, and the result is rounded to
// 2 fractional digits half-up (1.005 becomes 1.01).
// Returns ErrInvalidAmount for empty or non-numeric input.
func ParseMoney(input string) (Money, error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}

	return Money{amount: d.Round(2)}, nil
}

// MoneyFromDecimal builds a Money value from a raw decimal, applying the same
// 2-digit half-up rounding as ParseMoney.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.Round(2)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, +1 if m > o.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly 2 fractional digits ("20.50").
// This is the canonical serialized form used by every store backend.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
