package currencyinput

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawValue is the locale independent form of an amount: an optional leading
// "-", ASCII digits and at most one "." with no grouping. Partial input such
// as "-", "12." or ".5" is valid while typing.
type RawValue string

// ParseRawValue validates a canonical value supplied by the host. Surrounding
// whitespace and a leading "+" are tolerated.
func ParseRawValue(s string) (RawValue, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")

	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !seenDot:
			seenDot = true
		case r == '-' && i == 0:
		default:
			return "", fmt.Errorf("%w: %q", ErrMalformedValue, s)
		}
	}
	return RawValue(s), nil
}

func (v RawValue) String() string {
	return string(v)
}

// IsEmpty reports whether v holds no digits.
func (v RawValue) IsEmpty() bool {
	intPart, fracPart, _ := v.parts()
	return intPart == "" && fracPart == ""
}

// IsNegative reports whether v carries a sign.
func (v RawValue) IsNegative() bool {
	return strings.HasPrefix(string(v), "-")
}

// parts splits v into integer digits, fraction digits and whether a decimal
// point is present.
func (v RawValue) parts() (intPart, fracPart string, hasDot bool) {
	s := strings.TrimPrefix(string(v), "-")
	intPart, fracPart, hasDot = strings.Cut(s, ".")
	return intPart, fracPart, hasDot
}

// Decimal returns the numeric value; it is invalid for empty input or a lone sign.
func (v RawValue) Decimal() decimal.NullDecimal {
	if v.IsEmpty() {
		return decimal.NullDecimal{}
	}

	intPart, fracPart, _ := v.parts()
	if intPart == "" {
		intPart = "0"
	}
	literal := intPart
	if fracPart != "" {
		literal += "." + fracPart
	}
	if v.IsNegative() {
		literal = "-" + literal
	}

	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Normalize collapses equivalent representations into one string with exactly
// fractionDigits digits after the point. Extra digits are truncated.
// Empty input normalizes to "".
func (v RawValue) Normalize(fractionDigits int) string {
	value := v.Decimal()
	if !value.Valid {
		return ""
	}
	if fractionDigits < 0 {
		fractionDigits = 0
	}

	d := value.Decimal.Truncate(int32(fractionDigits))
	if d.IsZero() {
		d = decimal.Zero
	}
	return d.StringFixed(int32(fractionDigits))
}

// truncate drops fraction digits beyond limit without rounding.
func (v RawValue) truncate(limit int) RawValue {
	intPart, fracPart, hasDot := v.parts()
	if !hasDot || limit < 0 {
		return v
	}
	if limit == 0 {
		if intPart == "" && fracPart != "" {
			intPart = "0"
		}
		return composeRaw(v.IsNegative(), intPart, "", false)
	}
	if len(fracPart) > limit {
		fracPart = fracPart[:limit]
	}
	return composeRaw(v.IsNegative(), intPart, fracPart, true)
}

// committed drops a dangling point or lone sign and pads to scale digits when
// scale is not negative.
func (v RawValue) committed(scale int) RawValue {
	if v.IsEmpty() {
		return ""
	}

	negative := v.IsNegative()
	intPart, fracPart, _ := v.parts()
	intPart = trimLeadingZeros(intPart)
	if intPart == "" {
		intPart = "0"
	}
	if scale >= 0 && len(fracPart) < scale {
		fracPart += strings.Repeat("0", scale-len(fracPart))
	}
	if strings.Trim(intPart+fracPart, "0") == "" {
		negative = false
	}
	return composeRaw(negative, intPart, fracPart, fracPart != "")
}

func composeRaw(negative bool, intPart, fracPart string, hasDot bool) RawValue {
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if hasDot {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return RawValue(b.String())
}

// rawFromDecimal renders d without exponent, keeping at most limit fraction digits.
func rawFromDecimal(d decimal.Decimal, limit int) RawValue {
	if limit < 0 {
		limit = 0
	}
	d = d.Truncate(int32(limit))
	if d.IsZero() {
		d = decimal.Zero
	}
	return RawValue(d.String())
}

func trimLeadingZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" && digits != "" {
		return "0"
	}
	return trimmed
}
