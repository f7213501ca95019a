package currencyinput

import "sync"

// FallbackResolver resolves fallback locale chains
type FallbackResolver interface {
	Resolve(locale string) []string
}

// StaticFallbackResolver maps a locale to an explicit list of fallbacks.
type StaticFallbackResolver struct {
	mu     sync.RWMutex
	chains map[string][]string
}

func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[string][]string)}
}

// Set replaces the fallback chain for locale.
func (s *StaticFallbackResolver) Set(locale string, fallbacks ...string) {
	locale = normalizeLocale(locale)
	if s == nil || locale == "" {
		return
	}

	chain := make([]string, 0, len(fallbacks))
	for _, fallback := range fallbacks {
		if normalized := normalizeLocale(fallback); normalized != "" && normalized != locale {
			chain = append(chain, normalized)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chains == nil {
		s.chains = make(map[string][]string)
	}
	s.chains[locale] = chain
}

func (s *StaticFallbackResolver) Resolve(locale string) []string {
	if s == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	chain, ok := s.chains[normalizeLocale(locale)]
	if !ok {
		return nil
	}
	return append([]string(nil), chain...)
}
