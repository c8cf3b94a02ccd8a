// Package money holds the fixed-point helpers shared by the split, settlement and
// ledger code. All amounts are decimals at scale 2.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Scale        int32 = 2
	CentsPerUnit       = 100
)

var (
	Zero = decimal.Zero

	// Cent is the smallest representable amount.
	Cent = decimal.New(1, -Scale)

	// Tolerance is the half-cent band used to decide whether a tracked
	// quantity has been fully settled.
	Tolerance = decimal.New(5, -3)

	Hundred = decimal.NewFromInt(100)
)

// Normalize rounds half away from zero to two decimals.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Truncate drops everything past the second decimal, rounding toward zero.
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Scale)
}

// ToCents converts a normalized amount to integer cents.
func ToCents(d decimal.Decimal) int64 {
	return Normalize(d).Shift(Scale).IntPart()
}

// ErrOutOfRange is returned when an amount has no int64 cents representation.
var ErrOutOfRange = errors.New("amount is out of range")

// CheckedCents is ToCents for untrusted input.
func CheckedCents(d decimal.Decimal) (int64, error) {
	shifted := Normalize(d).Shift(Scale)
	if !shifted.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return shifted.IntPart(), nil
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// IsSettled reports whether |d| is within the half-cent tolerance.
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// Parse reads a decimal string such as "150", "150.5" or "-3.25".
// The result is not normalized.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", s)
	}
	return d, nil
}

// Format renders an amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// FormatCents renders integer cents with exactly two decimals.
func FormatCents(cents int64) string {
	return Format(FromCents(cents))
}
