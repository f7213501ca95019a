package currencyinput

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// referenceValue has enough integer digits to expose a secondary group size
// and a single fraction digit to locate the decimal separator.
const (
	referenceValue  = 1234567.5
	referenceDigits = "12345675"
)

// numberShape is what the platform formatter reveals about a locale's
// number layout.
type numberShape struct {
	decimal  rune
	group    rune
	grouping bool
	sizes    []int
	zero     rune
}

func deriveNumberShape(tag language.Tag) (numberShape, bool) {
	p := message.NewPrinter(tag)
	sample := p.Sprintf("%v", number.Decimal(referenceValue,
		number.MinFractionDigits(1),
		number.MaxFractionDigits(1)))
	return parseNumberShape(sample)
}

// parseNumberShape reads separators and group sizes back out of a formatted
// referenceValue. Bidi marks are ignored.
func parseNumberShape(sample string) (numberShape, bool) {
	var (
		runs    []int
		seps    []string
		digits  strings.Builder
		pending strings.Builder
		runLen  int
		zero    rune = -1
	)

	for _, r := range sample {
		switch {
		case unicode.Is(unicode.Bidi_Control, r):
			continue
		case unicode.IsDigit(r):
			if zero < 0 {
				zero = r - 1
			}
			if r < zero || r > zero+9 {
				return numberShape{}, false
			}
			if runLen == 0 && len(runs) > 0 {
				seps = append(seps, pending.String())
			}
			pending.Reset()
			digits.WriteByte(byte('0' + (r - zero)))
			runLen++
		default:
			if runLen > 0 {
				runs = append(runs, runLen)
				runLen = 0
			}
			if len(runs) > 0 {
				pending.WriteRune(r)
			}
		}
	}
	if runLen > 0 {
		runs = append(runs, runLen)
	}

	if digits.String() != referenceDigits || len(runs) < 2 || len(seps) != len(runs)-1 {
		return numberShape{}, false
	}
	if runs[len(runs)-1] != 1 {
		return numberShape{}, false
	}

	decimal, ok := singleRune(seps[len(seps)-1])
	if !ok {
		return numberShape{}, false
	}

	shape := numberShape{decimal: decimal, zero: zero}
	intRuns := runs[:len(runs)-1]
	groupSeps := seps[:len(seps)-1]

	if len(intRuns) == 1 {
		shape.group = ','
		if decimal == ',' {
			shape.group = '.'
		}
		shape.sizes = []int{3}
		return shape, true
	}

	group, ok := singleRune(groupSeps[0])
	if !ok || group == decimal {
		return numberShape{}, false
	}
	for _, sep := range groupSeps[1:] {
		if other, ok := singleRune(sep); !ok || other != group {
			return numberShape{}, false
		}
	}

	primary := intRuns[len(intRuns)-1]
	shape.sizes = []int{primary}
	if len(intRuns) >= 3 {
		if secondary := intRuns[len(intRuns)-2]; secondary != primary {
			shape.sizes = append(shape.sizes, secondary)
		}
	}
	shape.group = group
	shape.grouping = true
	return shape, true
}

func singleRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// digitValue maps ASCII digits and the ten digits starting at zero to 0-9.
func digitValue(r, zero rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if zero > 0 && zero != '0' && r >= zero && r <= zero+9 {
		return int(r - zero), true
	}
	return 0, false
}

func isMinusSign(r rune) bool {
	switch r {
	case '-', '−', '‒', '–', '﹣', '－':
		return true
	}
	return false
}

// isLayoutNoise reports runes that never carry numeric meaning.
func isLayoutNoise(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Bidi_Control, r)
}
