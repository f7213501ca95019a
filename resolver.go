package currencyinput

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/width"
)

// Resolver derives FormatRules from a locale and currency pair. It is safe for
// concurrent use; resolved rules are memoized per pair.
type Resolver struct {
	mu            sync.RWMutex
	cache         map[string]FormatRules
	conventions   *ConventionsProvider
	defaultLocale string
	logger        *logrus.Logger
}

type resolverConfig struct {
	defaultLocale string
	conventions   *ConventionsProvider
	logger        *logrus.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*resolverConfig)

// WithDefaultLocale sets the locale used for empty locale tags.
func WithDefaultLocale(locale string) ResolverOption {
	return func(rc *resolverConfig) {
		rc.defaultLocale = normalizeLocale(locale)
	}
}

// WithConventions replaces the embedded symbol conventions table.
func WithConventions(provider *ConventionsProvider) ResolverOption {
	return func(rc *resolverConfig) {
		rc.conventions = provider
	}
}

func WithResolverLogger(logger *logrus.Logger) ResolverOption {
	return func(rc *resolverConfig) {
		rc.logger = logger
	}
}

// NewResolver creates a resolver backed by golang.org/x/text.
func NewResolver(opts ...ResolverOption) *Resolver {
	cfg := resolverConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.defaultLocale == "" {
		cfg.defaultLocale = defaultLocale
	}
	if cfg.conventions == nil {
		cfg.conventions = defaultConventions
	}

	return &Resolver{
		cache:         make(map[string]FormatRules),
		conventions:   cfg.conventions,
		defaultLocale: cfg.defaultLocale,
		logger:        cfg.logger,
	}
}

var (
	defaultResolverOnce sync.Once
	defaultResolver     *Resolver
)

// DefaultResolver returns the shared package level resolver.
func DefaultResolver() *Resolver {
	defaultResolverOnce.Do(func() {
		defaultResolver = NewResolver()
	})
	return defaultResolver
}

// Resolve resolves rules using the shared resolver.
func Resolve(locale, currencyCode string) FormatRules {
	return DefaultResolver().Resolve(locale, currencyCode)
}

// Resolve returns the formatting rules for locale and currencyCode. It never
// fails: unknown locales fall back to DefaultRules conventions and unknown
// currencies are shown by their code.
func (r *Resolver) Resolve(locale, currencyCode string) FormatRules {
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = r.defaultLocale
	}
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	key := locale + "|" + code

	r.mu.RLock()
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached.clone()
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[key]; ok {
		return cached.clone()
	}

	rules := r.resolve(locale, code)
	r.cache[key] = rules
	return rules.clone()
}

func (r *Resolver) resolve(locale, code string) FormatRules {
	logger := loggerOrDefault(r.logger).WithFields(logrus.Fields{
		"locale":   locale,
		"currency": code,
	})

	tag, ok := parseLocaleTag(locale)
	if !ok {
		logger.Debug("unrecognized locale, using default rules")
		rules := DefaultRules()
		rules.Fallback = true
		return applyCurrency(rules, language.English, code, logger)
	}

	rules := DefaultRules()
	rules.Locale = locale

	if shape, ok := deriveNumberShape(tag); ok {
		rules.DecimalSeparator = shape.decimal
		rules.GroupSeparator = shape.group
		rules.GroupingEnabled = shape.grouping
		rules.GroupSizes = shape.sizes
		rules.Zero = shape.zero
	} else {
		logger.Debug("could not derive number layout, using default separators")
	}

	conventions := r.conventions.Get(tag.String())
	rules.SymbolPosition = conventions.SymbolPosition
	rules.SymbolSpacing = conventions.SymbolSpacing

	return applyCurrency(rules, tag, code, logger)
}

// applyCurrency fills in symbol and fraction digits. The locale only decides
// how the symbol is written, never which currency or how many decimals.
func applyCurrency(rules FormatRules, tag language.Tag, code string, logger *logrus.Entry) FormatRules {
	rules.Currency = code

	if code == "" {
		rules.Symbol = ""
		rules.FractionDigits = defaultFractionDigits
		return rules
	}

	unit, err := currency.ParseISO(code)
	if err != nil || unit.String() == "XXX" {
		logger.WithError(ErrUnknownCurrency).Debug("unknown currency, showing code")
		rules.Symbol = code
		rules.SymbolSpacing = SpacingSpace
		rules.FractionDigits = defaultFractionDigits
		return rules
	}

	scale, _ := currency.Standard.Rounding(unit)
	rules.FractionDigits = scale
	rules.Symbol = currencySymbol(tag, unit)
	rules.SymbolSpacing = currencySpacing(rules.Symbol, rules.SymbolPosition, rules.SymbolSpacing)
	return rules
}

func currencySymbol(tag language.Tag, unit currency.Unit) string {
	p := message.NewPrinter(tag)
	symbol := strings.TrimSpace(p.Sprint(currency.Symbol(unit)))
	symbol = width.Narrow.String(symbol)
	if symbol == "" {
		return unit.String()
	}
	return symbol
}

// currencySpacing applies the CLDR currency spacing rule: a symbol whose edge
// next to the digits is a letter is always separated by a space.
func currencySpacing(symbol string, position SymbolPosition, spacing SymbolSpacing) SymbolSpacing {
	if spacing == SpacingSpace || symbol == "" {
		return spacing
	}

	var edge rune
	if position == SymbolBefore {
		edge, _ = utf8.DecodeLastRuneInString(symbol)
	} else {
		edge, _ = utf8.DecodeRuneInString(symbol)
	}
	if unicode.IsLetter(edge) {
		return SpacingSpace
	}
	return spacing
}
