package commission

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libreferral-go/money"
)

// DefaultRates is the reference five-level table: 10%, 5%, 3%, 2%, 1%.
var DefaultRates = RateTable{money.Pct(10), money.Pct(5), money.Pct(3), money.Pct(2), money.Pct(1)}

// RatePolicy decides whether a table summing to more than 100% is accepted.
type RatePolicy string

const (
	// RatePolicyAdmin accepts any non-negative table; the total is the
	// administrator's responsibility.
	RatePolicyAdmin RatePolicy = "admin"
	// RatePolicyCapped rejects tables whose rates sum to more than 100%.
	RatePolicyCapped RatePolicy = "capped"
)

// ParseRatePolicy converts a configuration string to a RatePolicy.
func ParseRatePolicy(s string) (RatePolicy, error) {
	switch RatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case RatePolicyAdmin:
		return RatePolicyAdmin, nil
	case RatePolicyCapped:
		return RatePolicyCapped, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRatePolicy, s)
}

// RateTable maps commission level (index+1) to a percentage. Its length is
// the maximum number of upline levels paid.
type RateTable []money.Rate

// ParseRates builds a table from textual percentages such as "10" or "2.5".
func ParseRates(values []string) (RateTable, error) {
	t := make(RateTable, len(values))
	for i, v := range values {
		r, err := money.ParseRate(v)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %w", ErrInvalidRateTable, i+1, err)
		}
		t[i] = r
	}
	return t, nil
}

// Levels returns the number of paid levels.
func (t RateTable) Levels() int { return len(t) }

// Total returns the exact sum of all rates, in percent.
func (t RateTable) Total() decimal.Decimal { return money.SumRates(t) }

// Exceeds100 reports whether the rates sum to more than 100%.
func (t RateTable) Exceeds100() bool { return t.Total().GreaterThan(hundred) }

var hundred = decimal.NewFromInt(100)

// Validate checks the table against policy. Under RatePolicyCapped no single
// rate and no total may exceed 100%.
func (t RateTable) Validate(policy RatePolicy) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidRateTable)
	}
	for i, r := range t {
		if r < 0 {
			return fmt.Errorf("%w: level %d rate %s%% is negative", ErrInvalidRateTable, i+1, r)
		}
		if policy == RatePolicyCapped && r > money.Pct(100) {
			return fmt.Errorf("%w: level %d rate %s%% exceeds 100%%", ErrInvalidRateTable, i+1, r)
		}
	}
	if policy == RatePolicyCapped && t.Exceeds100() {
		return fmt.Errorf("%w: rates sum to %s%%", ErrInvalidRateTable, t.Total())
	}
	return nil
}

// Clone returns a copy of the table.
func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	c := make(RateTable, len(t))
	copy(c, t)
	return c
}

// Strings formats each rate as a percentage string.
func (t RateTable) Strings() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.String()
	}
	return out
}
