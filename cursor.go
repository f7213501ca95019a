package currencyinput

// caretAnchor records where the caret sat in terms of digits rather than
// offsets, so it survives separators being inserted or removed.
type caretAnchor struct {
	// digits counts integer digits left of the caret, or fraction digits when
	// fraction is set.
	digits   int
	fraction bool
	end      bool
}

// placeCaret maps an anchor onto a rendered display string.
func placeCaret(out rendered, decimal rune, anchor caretAnchor) int {
	display := []rune(out.text)
	if anchor.end {
		return len(display)
	}

	if anchor.fraction {
		for i := out.lo; i < out.hi; i++ {
			if display[i] == decimal {
				return min(i+1+anchor.digits, out.hi)
			}
		}
		return out.hi
	}

	if anchor.digits <= 0 {
		return out.lo
	}
	return offsetAfterDigits(display[out.lo:out.hi], anchor.digits) + out.lo
}

// offsetAfterDigits returns the offset just past the nth ASCII digit, or the
// end of runes when there are fewer.
func offsetAfterDigits(runes []rune, n int) int {
	seen := 0
	for i, r := range runes {
		if r < '0' || r > '9' {
			continue
		}
		seen++
		if seen == n {
			return i + 1
		}
	}
	return len(runes)
}

func clampOffset(offset, length int) int {
	return min(max(offset, 0), length)
}
