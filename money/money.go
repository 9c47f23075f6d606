// Package money implements fixed-point monetary amounts and percentage rates.
//
// Amounts are held in minor units (1/100 of the currency unit) and rates in
// hundredths of a percent, so both are plain integers that compare and
// serialize exactly. Arithmetic that can leave the integer domain (parsing,
// percentage application) goes through shopspring/decimal.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of decimal places carried by an Amount.
	AmountScale = 2

	// RateScale is the number of decimal places carried by a Rate (in percent).
	RateScale = 2
)

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)

	// basis converts amount(minor) * rate(hundredths of a percent) back to minor units.
	basis = decimal.NewFromInt(100 * 100)
)

// Amount is a monetary value in minor units.
type Amount int64

// Rate is a percentage in hundredths of a percent (1000 == 10%).
type Rate int64

// Whole returns the Amount for n whole currency units.
func Whole(n int64) Amount { return Amount(n * 100) }

// Pct returns the Rate for n whole percent.
func Pct(n int64) Rate { return Rate(n * 100) }

// ParseAmount parses a decimal string such as "1000", "12.5" or "0.01".
// More than AmountScale fractional digits is an error, not a rounding.
func ParseAmount(s string) (Amount, error) {
	v, err := parseScaled(s, AmountScale)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return Amount(v), nil
}

// ParseRate parses a percentage string such as "10" or "2.5".
func ParseRate(s string) (Rate, error) {
	v, err := parseScaled(s, RateScale)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRate, err)
	}
	return Rate(v), nil
}

func parseScaled(s string, scale int32) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%q has more than %d decimal places", s, scale)
	}
	v, err := toInt64(shifted)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return v, nil
}

// Decimal returns the amount in currency units.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(int64(a), -AmountScale) }

// String formats the amount with exactly AmountScale decimal places.
func (a Amount) String() string { return a.Decimal().StringFixed(AmountScale) }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a < 0 }

// MulRate returns a * r / 100, truncated toward zero to whole minor units.
// Truncation keeps the sum of several applications at or below a when the
// rates sum to at most 100%.
//
// A result outside the Amount range returns ErrOverflow.
func (a Amount) MulRate(r Rate) (Amount, error) {
	product := decimal.NewFromInt(int64(a)).Mul(decimal.NewFromInt(int64(r)))
	v, err := toInt64(product.Div(basis).Truncate(0))
	if err != nil {
		return 0, fmt.Errorf("%w: %s * %s%%", ErrOverflow, a, r)
	}
	return Amount(v), nil
}

// CheckedAdd returns a + b, or ErrOverflow when the sum leaves the Amount range.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %s + %s", ErrOverflow, a, b)
	}
	return sum, nil
}

// SumRates adds rates exactly, without wrapping.
func SumRates(rates []Rate) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rates {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	return sum.Shift(-RateScale)
}

func toInt64(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, ErrOverflow
	}
	return d.IntPart(), nil
}

// MarshalJSON encodes the amount as a JSON number with fixed precision.
func (a Amount) MarshalJSON() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s, err := jsonScalar(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML decoding).
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Decimal returns the rate in percent.
func (r Rate) Decimal() decimal.Decimal { return decimal.New(int64(r), -RateScale) }

// String formats the rate in percent without trailing zeros ("10", "2.5").
func (r Rate) String() string { return r.Decimal().String() }

// MarshalJSON encodes the rate as a JSON number in percent.
func (r Rate) MarshalJSON() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (r *Rate) UnmarshalJSON(data []byte) error {
	s, err := jsonScalar(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRate, err)
	}
	v, err := ParseRate(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func jsonScalar(data []byte) (string, error) {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		return "", errNull
	case strings.HasPrefix(s, `"`):
		return strconv.Unquote(s)
	}
	return s, nil
}
