package bps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShare(t *testing.T) {
	tests := []struct {
		name  string
		total uint64
		bps   uint16
		want  uint64
	}{
		{"zero bps", 1_000_000, 0, 0},
		{"full", 1_000_000, Max, 1_000_000},
		{"quarter", 10_000_000_000, 2500, 2_500_000_000},
		{"one percent", 10_000_000_000, 100, 100_000_000},
		{"floors remainder", 9999, 1, 0},
		{"floors partial", 15_001, 3333, 4999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Share(tt.total, tt.bps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShare_Overflow(t *testing.T) {
	_, err := Share(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

func TestShare_InvalidBps(t *testing.T) {
	_, err := Share(100, Max+1)
	assert.ErrorIs(t, err, ErrInvalidBps)
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = Sub(1, 2)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = Mul(math.MaxUint64/2+1, 2)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = AddBps(math.MaxUint16, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = AddInt64(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	_, err = AddInt64(math.MinInt64, -1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	sum, err := AddInt64(1_700_000_000, 3600)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_003_600), sum)

	diff, err := Sub(10, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), diff)
}

func TestRemaining(t *testing.T) {
	r, err := Remaining(3000)
	require.NoError(t, err)
	assert.Equal(t, uint16(7000), r)

	_, err = Remaining(Max + 1)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

// Scenario A: price 10 SOL at 1% custody.
func TestTotalRaise_ScenarioA(t *testing.T) {
	fee, total, err := TotalRaise(10_000_000_000, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), fee)
	assert.Equal(t, uint64(10_100_000_000), total)
}

// Scenario B: a 25% share of the Scenario A listing.
func TestQuoteShare_ScenarioB(t *testing.T) {
	q, err := QuoteShare(10_000_000_000, 100_000_000, 2500)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_500_000_000), q.Principal)
	assert.Equal(t, uint64(25_000_000), q.Fee)
	assert.Equal(t, uint64(2_525_000_000), q.Total)
	assert.Equal(t, uint16(2500), q.Bps)
}

func TestQuoteShare_IncrementsNeverExceedWhole(t *testing.T) {
	price, fee := uint64(1_000_003), uint64(10_000)
	var principal, fees uint64
	for _, b := range []uint16{3000, 4000, 3000} {
		q, err := QuoteShare(price, fee, b)
		require.NoError(t, err)
		principal += q.Principal
		fees += q.Fee
	}
	assert.LessOrEqual(t, principal, price)
	assert.LessOrEqual(t, fees, fee)
	assert.LessOrEqual(t, price-principal, uint64(3))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "2.525", FormatUnits(2_525_000_000, NativeDecimals))
	assert.Equal(t, "0", FormatUnits(0, NativeDecimals))
	assert.Equal(t, "1500", FormatUnits(1500, 0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "25.00%", Percent(2500))
	assert.Equal(t, "0.01%", Percent(1))
	assert.Equal(t, "100.00%", Percent(Max))
}
