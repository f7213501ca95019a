package currencyinput

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// normalizeLocale normalizes a single locale identifier by replacing
// underscores with hyphens and trimming whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

func normalizeLocales(locales []string) []string {
	if len(locales) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locales))
	result := make([]string, 0, len(locales))
	for _, locale := range locales {
		normalized := normalizeLocale(locale)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	sort.Strings(result)
	return result
}

// EffectiveLocale picks the locale a field should format with. A non-empty,
// well-formed override wins; anything else means no override is active.
func EffectiveLocale(selected, override string) string {
	trimmed := normalizeLocale(override)
	if trimmed == "" {
		return normalizeLocale(selected)
	}

	if _, err := language.Parse(trimmed); err != nil && !isValueError(err) {
		return normalizeLocale(selected)
	}
	return trimmed
}

// parseLocaleTag parses locale the way x/text does and reports whether a usable
// language survived. Unknown subtags are stripped, so "en-XY" yields "en".
func parseLocaleTag(locale string) (language.Tag, bool) {
	tag, err := language.Parse(locale)
	if err != nil && !isValueError(err) {
		return language.Und, false
	}

	base, _, _ := tag.Raw()
	if base.String() == "und" {
		return language.Und, false
	}
	return tag, true
}

func isValueError(err error) bool {
	var valueErr language.ValueError
	return errors.As(err, &valueErr)
}

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

func localeParentChain(locale string) []string {
	if locale == "" {
		return nil
	}

	var chain []string
	seen := make(map[string]struct{}, 4)

	if tag, err := language.Parse(locale); err == nil {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			parentValue := parent.String()
			if parentValue == "" || parentValue == "und" {
				break
			}
			if _, exists := seen[parentValue]; exists {
				break
			}
			seen[parentValue] = struct{}{}
			chain = append(chain, parentValue)
		}
	}

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			continue
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	return chain
}
