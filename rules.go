package currencyinput

import "strings"

const (
	defaultLocale         = "en-US"
	defaultCurrency       = "USD"
	defaultFractionDigits = 2

	// symbolSpace separates symbol and amount, matching what CLDR patterns emit.
	symbolSpace = '\u00a0'
)

// FormatRules is the resolved, immutable formatting scheme for a
// (locale, currency) pair. Modifiers return copies.
type FormatRules struct {
	Locale           string
	Currency         string
	DecimalSeparator rune
	GroupSeparator   rune
	GroupingEnabled  bool
	// GroupSizes lists group widths from the decimal separator leftwards.
	// The last entry repeats, so {3} is western grouping and {3, 2} is Indian.
	GroupSizes     []int
	FractionDigits int
	Symbol         string
	SymbolPosition SymbolPosition
	SymbolSpacing  SymbolSpacing
	// Zero is the locale's zero digit; digits in [Zero, Zero+9] are accepted
	// when parsing and rendered as ASCII.
	Zero rune
	// Fallback reports that the locale was not recognized and the default
	// rule set was used.
	Fallback bool
}

// DefaultRules returns the rule set used when a locale cannot be resolved:
// decimal ".", group ",", groups of three, two fraction digits and "$" placed
// before the amount without spacing.
func DefaultRules() FormatRules {
	return FormatRules{
		Locale:           defaultLocale,
		Currency:         defaultCurrency,
		DecimalSeparator: '.',
		GroupSeparator:   ',',
		GroupingEnabled:  true,
		GroupSizes:       []int{3},
		FractionDigits:   defaultFractionDigits,
		Symbol:           "$",
		SymbolPosition:   SymbolBefore,
		SymbolSpacing:    SpacingNone,
		Zero:             '0',
	}
}

func (r FormatRules) clone() FormatRules {
	if r.GroupSizes != nil {
		r.GroupSizes = append([]int(nil), r.GroupSizes...)
	}
	return r
}

// WithFractionDigits returns a copy using n fraction digits. Negative values are ignored.
func (r FormatRules) WithFractionDigits(n int) FormatRules {
	out := r.clone()
	if n >= 0 {
		out.FractionDigits = n
	}
	return out
}

// WithSeparators returns a copy with explicit separators. A zero rune keeps the current one.
func (r FormatRules) WithSeparators(decimal, group rune) FormatRules {
	out := r.clone()
	if decimal != 0 {
		out.DecimalSeparator = decimal
	}
	if group != 0 {
		out.GroupSeparator = group
	}
	return out
}

// WithoutGrouping returns a copy that never inserts group separators.
func (r FormatRules) WithoutGrouping() FormatRules {
	out := r.clone()
	out.GroupingEnabled = false
	return out
}

// Prefix is the text rendered between the sign and the first digit.
func (r FormatRules) Prefix() string {
	if r.Symbol == "" || r.SymbolPosition != SymbolBefore {
		return ""
	}
	if r.SymbolSpacing == SpacingSpace {
		return r.Symbol + string(symbolSpace)
	}
	return r.Symbol
}

// Suffix is the text rendered after the last digit.
func (r FormatRules) Suffix() string {
	if r.Symbol == "" || r.SymbolPosition != SymbolAfter {
		return ""
	}
	if r.SymbolSpacing == SpacingSpace {
		return string(symbolSpace) + r.Symbol
	}
	return r.Symbol
}

// Equal reports whether both rule sets render identically.
func (r FormatRules) Equal(other FormatRules) bool {
	if len(r.GroupSizes) != len(other.GroupSizes) {
		return false
	}
	for i := range r.GroupSizes {
		if r.GroupSizes[i] != other.GroupSizes[i] {
			return false
		}
	}
	return r.Locale == other.Locale &&
		r.Currency == other.Currency &&
		r.DecimalSeparator == other.DecimalSeparator &&
		r.GroupSeparator == other.GroupSeparator &&
		r.GroupingEnabled == other.GroupingEnabled &&
		r.FractionDigits == other.FractionDigits &&
		r.Symbol == other.Symbol &&
		r.SymbolPosition == other.SymbolPosition &&
		r.SymbolSpacing == other.SymbolSpacing &&
		r.Zero == other.Zero &&
		r.Fallback == other.Fallback
}

func (r FormatRules) String() string {
	var b strings.Builder
	b.WriteString(r.Locale)
	b.WriteByte('/')
	b.WriteString(r.Currency)
	return b.String()
}
