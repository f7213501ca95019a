package currencyinput

import (
	"golang.org/x/text/language"
)

const defaultConventionsKey = "default"

// builtinConventions is the ultimate fallback when no table could be loaded.
var builtinConventions = SymbolConventions{
	SymbolPosition: SymbolBefore,
	SymbolSpacing:  SpacingNone,
}

// ConventionsProvider provides symbol conventions for locales
type ConventionsProvider struct {
	conventions map[string]SymbolConventions
	resolver    FallbackResolver
}

// NewConventionsProvider creates a provider from loaded conventions data
func NewConventionsProvider(data *ConventionsData, resolver FallbackResolver) *ConventionsProvider {
	conventions := make(map[string]SymbolConventions)
	if data != nil {
		for k, v := range data.Conventions {
			conventions[normalizeLocale(k)] = v
		}
	}

	return &ConventionsProvider{
		conventions: conventions,
		resolver:    resolver,
	}
}

// Get loads symbol conventions for a locale.
// It tries exact match, resolver candidates, parents, base language, then the default entry.
func (p *ConventionsProvider) Get(locale string) SymbolConventions {
	if p == nil || len(p.conventions) == 0 {
		return builtinConventions
	}

	locale = normalizeLocale(locale)

	if conventions, ok := p.conventions[locale]; ok {
		return conventions
	}

	if p.resolver != nil {
		for _, candidate := range p.resolver.Resolve(locale) {
			if conventions, ok := p.conventions[candidate]; ok {
				return conventions
			}
		}
	}

	for _, parent := range localeParentChain(locale) {
		if conventions, ok := p.conventions[parent]; ok {
			return conventions
		}
	}

	tag := language.Make(locale)
	base, _ := tag.Base()
	if conventions, ok := p.conventions[base.String()]; ok {
		return conventions
	}

	if conventions, ok := p.conventions[defaultConventionsKey]; ok {
		return conventions
	}

	return builtinConventions
}

// Locales lists the locales with an explicit entry.
func (p *ConventionsProvider) Locales() []string {
	if p == nil {
		return nil
	}
	locales := make([]string, 0, len(p.conventions))
	for locale := range p.conventions {
		if locale == defaultConventionsKey {
			continue
		}
		locales = append(locales, locale)
	}
	return normalizeLocales(locales)
}
