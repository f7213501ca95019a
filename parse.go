package currencyinput

import (
	"fmt"
	"strings"
)

// parseOptions limits what the canonicalizer accepts. A negative
// decimalsLimit means unlimited, a zero maxLength means no digit cap.
type parseOptions struct {
	allowNegative bool
	decimalsLimit int
	maxLength     int
	abbreviations bool
	affixes       []string
}

// parsed is a canonical value and where the caret belongs in its rendering.
type parsed struct {
	raw    RawValue
	anchor caretAnchor
}

// ParseDisplay converts a display string produced under rules back into a raw
// value. Group separators, the symbol and spacing are ignored; the locale's
// native digits are accepted alongside ASCII.
func ParseDisplay(display string, rules FormatRules) (RawValue, error) {
	p, err := canonicalize(display, 0, rules, parseOptions{
		allowNegative: true,
		decimalsLimit: -1,
		affixes:       []string{rules.Symbol, rules.Prefix(), rules.Suffix()},
	})
	if err != nil {
		return "", err
	}
	return p.raw, nil
}

// canonicalize strips structural runes from input and returns the surviving
// number in canonical form. cursor is a rune offset into input.
func canonicalize(input string, cursor int, rules FormatRules, opts parseOptions) (parsed, error) {
	runes := []rune(input)
	cursor = clampOffset(cursor, len(runes))
	noise := markAffixes(runes, opts.affixes)
	symbolRunes := affixRunes(opts.affixes)
	first, last := digitSpan(runes, noise, rules.Zero)

	var (
		intDigits  strings.Builder
		fracDigits strings.Builder
		negative   bool
		seenDot    bool
		dotBefore  bool
		started    bool
		intBefore  int
		fracBefore int
		abbrev     rune
	)

	for i, r := range runes {
		if noise[i] || isLayoutNoise(r) {
			continue
		}

		if d, ok := digitValue(r, rules.Zero); ok {
			if abbrev != 0 {
				return parsed{}, malformed("digit after abbreviation")
			}
			started = true
			if seenDot {
				fracDigits.WriteByte(byte('0' + d))
				if i < cursor {
					fracBefore++
				}
			} else {
				intDigits.WriteByte(byte('0' + d))
				if i < cursor {
					intBefore++
				}
			}
			continue
		}

		// Outside the digits, symbol runes belong to a partly deleted symbol.
		// A decimal separator touching a digit still counts as one.
		if symbolRunes[r] && first >= 0 && (i < first || i > last) {
			touching := i == first-1 || i == last+1
			if r != rules.DecimalSeparator || !touching {
				continue
			}
		}

		switch {
		case r == rules.DecimalSeparator:
			switch {
			case abbrev != 0:
				return parsed{}, malformed("decimal separator after abbreviation")
			case seenDot:
				return parsed{}, malformed("second decimal separator")
			case opts.decimalsLimit == 0:
				return parsed{}, malformed("decimals not allowed")
			}
			seenDot = true
			started = true
			dotBefore = i < cursor
		case isMinusSign(r):
			switch {
			case started || negative:
				return parsed{}, malformed("sign is not leading")
			case !opts.allowNegative:
				return parsed{}, malformed("negative values not allowed")
			}
			negative = true
		case r == rules.GroupSeparator:
		case symbolRunes[r]:
		case opts.abbreviations && abbrev == 0 && isAbbreviation(r):
			abbrev = r
		default:
			return parsed{}, malformed(fmt.Sprintf("unexpected %q", r))
		}
	}

	intPart := intDigits.String()
	fracPart := fracDigits.String()

	if abbrev != 0 {
		return expandParsed(negative, intPart, fracPart, abbrev, opts)
	}

	if opts.decimalsLimit >= 0 && len(fracPart) > opts.decimalsLimit {
		fracPart = fracPart[:opts.decimalsLimit]
		fracBefore = min(fracBefore, len(fracPart))
	}

	trimmed := trimLeadingZeros(intPart)
	intBefore = max(intBefore-(len(intPart)-len(trimmed)), 0)
	if trimmed == "" && seenDot {
		trimmed = "0"
	}

	if opts.maxLength > 0 && significantDigits(trimmed)+len(fracPart) > opts.maxLength {
		return parsed{}, malformed("too many digits")
	}

	anchor := caretAnchor{digits: intBefore}
	if dotBefore {
		anchor = caretAnchor{digits: fracBefore, fraction: true}
	}

	return parsed{
		raw:    composeRaw(negative, trimmed, fracPart, seenDot),
		anchor: anchor,
	}, nil
}

func expandParsed(negative bool, intPart, fracPart string, abbrev rune, opts parseOptions) (parsed, error) {
	if intPart == "" && fracPart == "" {
		return parsed{}, malformed("abbreviation without digits")
	}

	amount := intPart
	if amount == "" {
		amount = "0"
	}
	if fracPart != "" {
		amount += "." + fracPart
	}

	d, err := expandAbbreviation(amount, abbrev)
	if err != nil {
		return parsed{}, err
	}
	if negative {
		d = d.Neg()
	}

	var raw RawValue
	if opts.decimalsLimit < 0 {
		raw = RawValue(d.String())
	} else {
		raw = rawFromDecimal(d, opts.decimalsLimit)
	}

	intOut, fracOut, _ := raw.parts()
	if opts.maxLength > 0 && significantDigits(intOut)+len(fracOut) > opts.maxLength {
		return parsed{}, malformed("too many digits")
	}
	return parsed{raw: raw, anchor: caretAnchor{end: true}}, nil
}

// digitSpan returns the offsets of the first and last digit outside the
// marked affixes, or -1, -1 when there are none.
func digitSpan(runes []rune, noise []bool, zero rune) (first, last int) {
	first, last = -1, -1
	for i, r := range runes {
		if noise[i] {
			continue
		}
		if _, ok := digitValue(r, zero); ok {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

// markAffixes flags every exact occurrence of the affix texts.
func markAffixes(runes []rune, affixes []string) []bool {
	noise := make([]bool, len(runes))
	for _, affix := range affixes {
		needle := []rune(strings.TrimSpace(affix))
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(runes); i++ {
			if equalRunes(runes[i:i+len(needle)], needle) {
				for j := range needle {
					noise[i+j] = true
				}
			}
		}
	}
	return noise
}

// affixRunes collects the non-digit runes of the affixes so a partially
// deleted symbol is still treated as noise.
func affixRunes(affixes []string) map[rune]bool {
	set := make(map[rune]bool)
	for _, affix := range affixes {
		for _, r := range affix {
			if r >= '0' && r <= '9' {
				continue
			}
			set[r] = true
		}
	}
	return set
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// significantDigits ignores the single zero rendered for an empty integer part.
func significantDigits(intPart string) int {
	if intPart == "0" {
		return 0
	}
	return len(intPart)
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedValue, reason)
}
