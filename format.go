package currencyinput

import (
	"slices"
	"strings"
)

// Format renders v as a committed amount: grouped, with the currency symbol and
// exactly FractionDigits fraction digits. Empty values render as "".
func (r FormatRules) Format(v RawValue) string {
	return r.layout(r.committed(v), r.Prefix(), r.Suffix()).text
}

// FormatNumber is Format without the currency symbol.
func (r FormatRules) FormatNumber(v RawValue) string {
	return r.layout(r.committed(v), "", "").text
}

func (r FormatRules) committed(v RawValue) RawValue {
	return v.truncate(r.FractionDigits).committed(r.FractionDigits)
}

// rendered is a display string plus the rune range that holds the number,
// between sign and prefix on the left and the suffix on the right.
type rendered struct {
	text   string
	lo, hi int
}

// layout renders v as typed: the fraction is neither padded nor trimmed.
func (r FormatRules) layout(v RawValue, prefix, suffix string) rendered {
	intPart, fracPart, hasDot := v.parts()
	if intPart == "" && fracPart == "" && !hasDot {
		if !v.IsNegative() {
			return rendered{}
		}
		text := "-" + prefix
		n := runeCount(text)
		return rendered{text: text, lo: n, hi: n}
	}

	intPart = trimLeadingZeros(intPart)
	if intPart == "" {
		intPart = "0"
	}

	var b strings.Builder
	if v.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(prefix)
	lo := runeCount(b.String())

	if r.GroupingEnabled {
		b.WriteString(groupDigits(intPart, r.GroupSeparator, r.GroupSizes))
	} else {
		b.WriteString(intPart)
	}
	if hasDot {
		b.WriteRune(r.DecimalSeparator)
		b.WriteString(fracPart)
	}
	hi := runeCount(b.String())
	b.WriteString(suffix)

	return rendered{text: b.String(), lo: lo, hi: hi}
}

// groupDigits inserts sep between groups counted from the right. The first size
// is the group next to the decimal separator; the last size repeats.
func groupDigits(digits string, sep rune, sizes []int) string {
	if len(sizes) == 0 || sizes[0] <= 0 || len(digits) <= sizes[0] {
		return digits
	}

	var groups []string
	end := len(digits)
	for i := 0; end > 0; i++ {
		size := sizes[min(i, len(sizes)-1)]
		if size <= 0 {
			groups = append(groups, digits[:end])
			break
		}
		start := max(end-size, 0)
		groups = append(groups, digits[start:end])
		end = start
	}

	slices.Reverse(groups)
	return strings.Join(groups, string(sep))
}

func runeCount(s string) int {
	return len([]rune(s))
}
