package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
	"github.com/sakhrm410f/secure-bank-system/internal/money"
)

func TestParseExact(t *testing.T) {
	t.Run("accepts two decimal places", func(t *testing.T) {
		d, err := money.ParseExact("40.00")
		require.NoError(t, err)
		assert.Equal(t, "40.00", money.String(d))
	})

	t.Run("accepts whole amounts", func(t *testing.T) {
		d, err := money.ParseExact("100")
		require.NoError(t, err)
		assert.Equal(t, "100.00", money.String(d))
	})

	t.Run("accepts trailing zeros beyond scale", func(t *testing.T) {
		d, err := money.ParseExact("10.100")
		require.NoError(t, err)
		assert.Equal(t, "10.10", money.String(d))
	})

	t.Run("rejects excess precision", func(t *testing.T) {
		_, err := money.ParseExact("10.001")
		assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		for _, raw := range []string{"0", "0.00", "-5.00"} {
			_, err := money.ParseExact(raw)
			assert.ErrorIs(t, err, apperr.ErrInvalidAmount, raw)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "1,000", "1e3garbage"} {
			_, err := money.ParseExact(raw)
			assert.ErrorIs(t, err, apperr.ErrInvalidAmount, raw)
		}
	})
}

func TestParseQuantized(t *testing.T) {
	t.Run("rounds half up", func(t *testing.T) {
		d, err := money.ParseQuantized("10.005")
		require.NoError(t, err)
		assert.Equal(t, "10.01", money.String(d))
	})

	t.Run("rounds down below midpoint", func(t *testing.T) {
		d, err := money.ParseQuantized("10.004")
		require.NoError(t, err)
		assert.Equal(t, "10.00", money.String(d))
	})

	t.Run("rejects amounts that quantize to zero", func(t *testing.T) {
		_, err := money.ParseQuantized("0.001")
		assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	})
}

func TestQuantize(t *testing.T) {
	d := money.Quantize(decimal.RequireFromString("1.235"))
	assert.Equal(t, "1.24", money.String(d))
}
