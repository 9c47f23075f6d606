package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libreferral-go/money"
)

func TestParseRates(t *testing.T) {
	got, err := ParseRates([]string{"10", "5", "2.5", " 1 "})
	require.NoError(t, err)
	assert.Equal(t, RateTable{1000, 500, 250, 100}, got)
	assert.Equal(t, []string{"10", "5", "2.5", "1"}, got.Strings())

	_, err = ParseRates([]string{"10", "five"})
	assert.ErrorIs(t, err, ErrInvalidRateTable)
	assert.ErrorIs(t, err, money.ErrInvalidRate)
}

func TestRateTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   RateTable
		policy  RatePolicy
		wantErr bool
	}{
		{"default", DefaultRates, RatePolicyCapped, false},
		{"empty", RateTable{}, RatePolicyAdmin, true},
		{"negative", RateTable{money.Pct(10), -1}, RatePolicyAdmin, true},
		{"exactly 100 capped", RateTable{money.Pct(60), money.Pct(40)}, RatePolicyCapped, false},
		{"over 100 capped", RateTable{money.Pct(60), money.Pct(41)}, RatePolicyCapped, true},
		{"over 100 admin", RateTable{money.Pct(60), money.Pct(41)}, RatePolicyAdmin, false},
		{"zero rates", RateTable{0, 0}, RatePolicyCapped, false},
		{"single rate over 100 capped", RateTable{money.Pct(101)}, RatePolicyCapped, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate(tt.policy)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRateTable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateTable_TotalAndLevels(t *testing.T) {
	assert.Equal(t, 5, DefaultRates.Levels())
	assert.Equal(t, "21", DefaultRates.Total().String())
	assert.False(t, DefaultRates.Exceeds100())
}

func TestRateTable_SumDoesNotWrap(t *testing.T) {
	table, err := ParseRates([]string{"92233720368547758.07", "0.01"})
	require.NoError(t, err)

	assert.True(t, table.Total().IsPositive())
	assert.Equal(t, "92233720368547758.08", table.Total().String())
	assert.True(t, table.Exceeds100())
	assert.ErrorIs(t, table.Validate(RatePolicyCapped), ErrInvalidRateTable)
	assert.NoError(t, table.Validate(RatePolicyAdmin))
}

func TestRateTable_Clone(t *testing.T) {
	c := DefaultRates.Clone()
	c[0] = 0
	assert.Equal(t, money.Pct(10), DefaultRates[0])
	assert.Nil(t, RateTable(nil).Clone())
}

func TestParseRatePolicy(t *testing.T) {
	p, err := ParseRatePolicy("CAPPED")
	require.NoError(t, err)
	assert.Equal(t, RatePolicyCapped, p)

	_, err = ParseRatePolicy("none")
	assert.ErrorIs(t, err, ErrInvalidRatePolicy)
}
