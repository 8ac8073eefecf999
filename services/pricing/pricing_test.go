package pricing

import (
	"errors"
	"testing"
	"time"

	"rental-booking/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		nights   int
		rate     string
		discount string
		want     string
	}{
		{"no discount", 3, "50", "0", "150"},
		{"with discount", 3, "50", "5", "135"},
		{"discount equals rate", 2, "40", "40", "0"},
		{"discount above rate floors at zero", 2, "40", "55", "0"},
		{"cents", 4, "19.99", "0.50", "77.96"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(tt.nights, d(tt.rate), d(tt.discount))
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestPrice_Monotonic(t *testing.T) {
	rate := d("45")
	prev := decimal.NewFromInt(-1)
	for nights := 1; nights <= 10; nights++ {
		got, err := Total(nights, rate, d("5"))
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev))
		prev = got
	}

	prev = decimal.NewFromInt(1 << 30)
	for disc := 0; disc <= 60; disc += 5 {
		got, err := Total(3, rate, decimal.NewFromInt(int64(disc)))
		require.NoError(t, err)
		assert.False(t, got.IsNegative())
		assert.True(t, got.LessThanOrEqual(prev), "discount %d raised the price", disc)
		prev = got
	}
}

func TestPrice_RejectsBadInput(t *testing.T) {
	var verr *apperror.ValidationError

	_, err := Total(0, d("10"), d("0"))
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "nights", verr.Field)

	_, err = Total(1, d("-1"), d("0"))
	assert.True(t, errors.As(err, &verr))

	_, err = Total(1, d("10"), d("-1"))
	assert.True(t, errors.As(err, &verr))
}

func TestNightsAndEndStayConsistent(t *testing.T) {
	start := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	end := EndFor(start, 4)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), end)

	n, err := Nights(start, end)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = Nights(end, start)
	var rerr *apperror.InvalidRangeError
	assert.True(t, errors.As(err, &rerr))

	q, err := PriceStay(start, end, d("25"), d("0"))
	require.NoError(t, err)
	assert.Equal(t, "100", q.Total.String())
	assert.Equal(t, "100", q.Gross.String())
}
