package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/number"

	"github.com/sambeau/shapekit/pkg/locale"
)

// MaxFractionDigits bounds the fractionDigits argument of FormatNumberFixed.
const MaxFractionDigits = 100

// exactDigits is enough fraction digits to spell out any float64 below 1 exactly.
const exactDigits = 1100

// FormatNumber renders n with the provider's locale rules.
func FormatNumber(p locale.Provider, n float64, opts ...number.Option) string {
	return p.FormatDecimal(n, opts...)
}

// FormatNumberFixed renders n with locale grouping on the integer part and
// exactly fractionDigits digits after the point.
//
// The integer and fraction parts of n's plain decimal form are handled
// separately: the fraction is rounded half-up as 0.<fraction>, the integer
// part is grouped by the locale, and the two are joined with ".". A carry out
// of the fraction is dropped, so 1.999 with two digits renders as "1.00".
// Whole numbers are rendered by FormatNumber, and a fractionDigits of zero
// yields the grouped integer part with no point.
func FormatNumberFixed(p locale.Provider, n float64, fractionDigits int, opts ...number.Option) string {
	plain := strconv.FormatFloat(n, 'f', -1, 64)
	intPart, fracPart, ok := strings.Cut(plain, ".")
	if !ok {
		return FormatNumber(p, n, opts...)
	}

	digits := min(max(fractionDigits, 0), MaxFractionDigits)
	integer := formatInteger(p, intPart, opts...)
	if digits == 0 {
		return integer
	}
	return integer + "." + roundFraction(fracPart, digits)
}

// formatInteger groups a signed run of decimal digits. The sign is kept even
// for "-0", which is how -0.5 keeps its sign.
func formatInteger(p locale.Provider, s string, opts ...number.Option) string {
	neg := strings.HasPrefix(s, "-")
	// Integer parts of floats with a fraction are below 2^53, so this is exact.
	v, _ := strconv.ParseFloat(strings.TrimPrefix(s, "-"), 64)
	switch {
	case neg && v == 0:
		return "-" + p.FormatDecimal(0, opts...)
	case neg:
		return p.FormatDecimal(-v, opts...)
	}
	return p.FormatDecimal(v, opts...)
}

// roundFraction reads "0."+frac as a float64, rounds it half-up on its exact
// binary value to digits places and returns the digits after the point.
func roundFraction(frac string, digits int) string {
	x, err := strconv.ParseFloat("0."+frac, 64)
	if err != nil {
		return strings.Repeat("0", digits)
	}
	exact := strconv.FormatFloat(x, 'f', exactDigits, 64)
	intPart, fracPart, _ := strings.Cut(exact, ".")

	kept := []byte(intPart + fracPart[:digits])
	if fracPart[digits] >= '5' {
		kept = increment(kept)
	}
	return string(kept[len(kept)-digits:])
}

// increment adds one to a run of decimal digits.
func increment(d []byte) []byte {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i] < '9' {
			d[i]++
			return d
		}
		d[i] = '0'
	}
	return append([]byte{'1'}, d...)
}
