package currencyinput

import (
	"fmt"
	"unicode"

	"github.com/shopspring/decimal"
)

var abbreviationExponents = map[rune]int32{
	'k': 3,
	'm': 6,
	'b': 9,
}

func isAbbreviation(r rune) bool {
	_, ok := abbreviationExponents[unicode.ToLower(r)]
	return ok
}

// expandAbbreviation multiplies the canonical amount by the power of ten the
// suffix stands for, so "2.5" with 'm' yields 2500000.
func expandAbbreviation(amount string, suffix rune) (decimal.Decimal, error) {
	exp, ok := abbreviationExponents[unicode.ToLower(suffix)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: unknown abbreviation %q", ErrMalformedValue, suffix)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return d.Shift(exp), nil
}
