// Package money centralizes monetary parsing and quantization. Every engine
// goes through this package; no other code calls decimal rounding directly,
// so the 2-decimal-place policy lives in exactly one place.
package money

import (
	"github.com/shopspring/decimal"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// Scale is the fixed fractional precision for all currency values.
const Scale = 2

var Zero = decimal.Zero

// Quantize rounds d to 2 decimal places, half away from zero.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse converts a raw amount string into a positive decimal. It rejects
// malformed input and non-positive values but performs no rounding.
func Parse(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperr.ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, apperr.ErrInvalidAmount
	}
	return d, nil
}

// ParseExact parses raw and rejects any amount carrying more than 2 decimal
// places. Transfers use this: excess precision is an input error, never
// silently truncated.
func ParseExact(raw string) (decimal.Decimal, error) {
	d, err := Parse(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.Exponent() < -Scale {
		// Trailing zeros beyond the scale are harmless ("10.100").
		if !d.Equal(Quantize(d)) {
			return decimal.Decimal{}, apperr.ErrInvalidAmount
		}
	}
	return Quantize(d), nil
}

// ParseQuantized parses raw and rounds it to scale under the shared policy.
// Administrative deposits use this, matching the console's behavior of
// accepting over-precise input and quantizing it.
func ParseQuantized(raw string) (decimal.Decimal, error) {
	d, err := Parse(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d = Quantize(d)
	if !d.IsPositive() {
		// "0.001" rounds to zero; that is not a depositable amount.
		return decimal.Decimal{}, apperr.ErrInvalidAmount
	}
	return d, nil
}

// String renders d at the fixed scale ("60" → "60.00").
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
