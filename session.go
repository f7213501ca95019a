package currencyinput

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Result is what the host applies to its text field after every operation.
type Result struct {
	Display string
	// Cursor is a rune offset into Display.
	Cursor int
	Value  RawValue
	// Number is invalid while the field holds no digits.
	Number decimal.NullDecimal
	// Changed is false when the operation was rejected and the previous
	// state was kept.
	Changed bool
}

// Session is the live state of one currency field. It is not safe for
// concurrent use; each field owns its own session.
type Session struct {
	cfg      sessionConfig
	resolver *Resolver
	locale   string
	currency string
	rules    FormatRules
	raw      RawValue
	result   Result
}

// canonicalRules reads raw values supplied by the host.
var canonicalRules = FormatRules{DecimalSeparator: '.', Zero: '0'}

// NewSession creates an empty session for the locale and currency pair.
// Option errors wrap ErrInvalidConfiguration.
func NewSession(locale, currencyCode string, opts ...Option) (*Session, error) {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	resolver := cfg.resolver
	if resolver == nil {
		resolver = DefaultResolver()
	}

	s := &Session{
		cfg:      cfg,
		resolver: resolver,
		locale:   locale,
		currency: currencyCode,
	}
	s.rules = s.resolveRules()
	s.result = s.render("", caretAnchor{end: true}, true)
	return s, nil
}

// SetRawValue replaces the value outright, for initial or programmatic values.
// Extra fraction digits are truncated; anything else the field would refuse
// to accept leaves the session unchanged.
func (s *Session) SetRawValue(v string) Result {
	raw, err := ParseRawValue(v)
	if err != nil {
		return s.reject(err, v)
	}

	opts := s.parseOptions()
	opts.decimalsLimit = -1
	opts.abbreviations = false
	opts.affixes = nil

	p, err := canonicalize(string(raw), 0, canonicalRules, opts)
	if err != nil {
		return s.reject(err, v)
	}
	return s.accept(p.raw.truncate(s.rules.FractionDigits), caretAnchor{end: true})
}

// SetDisplayValue seeds the session from a string formatted for the current
// locale, as when a stored display value is restored.
func (s *Session) SetDisplayValue(display string) Result {
	p, err := canonicalize(display, 0, s.rules, s.parseOptions())
	if err != nil {
		return s.reject(err, display)
	}
	return s.accept(p.raw, caretAnchor{end: true})
}

// ApplyEdit takes the field content after the user's edit and the caret
// offset right after it, and returns the reformatted field. The caret keeps
// the same number of digits to its left.
func (s *Session) ApplyEdit(proposed string, cursorBefore int) Result {
	p, err := canonicalize(proposed, cursorBefore, s.rules, s.parseOptions())
	if err != nil {
		return s.reject(err, proposed)
	}
	return s.accept(p.raw, p.anchor)
}

// Clear empties the field. With WithZeroPlaceholder the display shows zero
// while the value stays empty.
func (s *Session) Clear() Result {
	s.raw = ""
	if !s.cfg.zeroPlaceholder {
		s.result = s.render("", caretAnchor{end: true}, true)
		return s.result
	}

	prefix, suffix := s.affixes()
	placeholder := s.rules.layout(s.rules.committed("0"), prefix, suffix)
	s.result = Result{Display: placeholder.text, Changed: true}
	return s.result
}

// SetLocale re-resolves the rules for a new locale. The value is kept and the
// caret moves to the end.
func (s *Session) SetLocale(locale string) Result {
	return s.SetIntlConfig(locale, s.currency)
}

// SetCurrency re-resolves the rules for a new currency. Fraction digits the
// new currency does not allow are truncated.
func (s *Session) SetCurrency(currencyCode string) Result {
	return s.SetIntlConfig(s.locale, currencyCode)
}

// SetIntlConfig changes locale and currency together.
func (s *Session) SetIntlConfig(locale, currencyCode string) Result {
	s.locale = locale
	s.currency = currencyCode
	s.rules = s.resolveRules()
	return s.accept(s.raw.truncate(s.rules.FractionDigits), caretAnchor{end: true})
}

// Commit finishes editing, as on blur: a dangling decimal separator or lone
// sign is dropped and the fraction is padded to the decimal scale.
func (s *Session) Commit() Result {
	return s.accept(s.raw.committed(s.commitScale()), caretAnchor{end: true})
}

// Step adds n steps to the value; an empty field counts as zero. Negative
// results clamp to zero when negatives are not allowed.
func (s *Session) Step(n int) Result {
	current := decimal.Zero
	if value := s.raw.Decimal(); value.Valid {
		current = value.Decimal
	}

	next := current.Add(s.cfg.step.Mul(decimal.NewFromInt(int64(n))))
	if next.IsNegative() && !s.cfg.allowNegative {
		next = decimal.Zero
	}

	_, fracPart, _ := s.raw.parts()
	places := max(len(fracPart), int(-s.cfg.step.Exponent()), s.commitScale(), 0)
	places = min(places, s.rules.FractionDigits)

	next = next.Truncate(int32(places))
	if next.IsZero() {
		next = decimal.Zero
	}
	raw := RawValue(next.StringFixed(int32(places)))

	intPart, frac, _ := raw.parts()
	if s.cfg.maxLength > 0 && significantDigits(intPart)+len(frac) > s.cfg.maxLength {
		return s.reject(malformed("too many digits"), raw.String())
	}
	return s.accept(raw, caretAnchor{end: true})
}

// Rules returns the rules the session currently renders with.
func (s *Session) Rules() FormatRules {
	return s.rules.clone()
}

// Result returns the outcome of the last accepted operation.
func (s *Session) Result() Result {
	return s.result
}

func (s *Session) Value() RawValue {
	return s.raw
}

func (s *Session) accept(raw RawValue, anchor caretAnchor) Result {
	s.raw = raw
	s.result = s.render(raw, anchor, true)
	return s.result
}

func (s *Session) reject(err error, input string) Result {
	s.log().WithError(err).WithField("input", input).Debug("edit rejected")
	previous := s.result
	previous.Changed = false
	return previous
}

func (s *Session) render(raw RawValue, anchor caretAnchor, changed bool) Result {
	prefix, suffix := s.affixes()
	out := s.rules.layout(raw, prefix, suffix)
	return Result{
		Display: out.text,
		Cursor:  placeCaret(out, s.rules.DecimalSeparator, anchor),
		Value:   raw,
		Number:  raw.Decimal(),
		Changed: changed,
	}
}

// resolveRules applies session overrides on top of the resolved rules.
func (s *Session) resolveRules() FormatRules {
	rules := s.resolver.Resolve(s.locale, s.currency)

	limit := rules.FractionDigits
	if s.cfg.hasDecimalsLimit {
		limit = s.cfg.decimalsLimit
	}
	if !s.cfg.allowDecimals {
		limit = 0
	}

	rules = rules.WithFractionDigits(limit).
		WithSeparators(s.cfg.decimalSeparator, s.cfg.groupSeparator)
	if s.cfg.disableGrouping {
		rules = rules.WithoutGrouping()
	}

	if rules.DecimalSeparator == rules.GroupSeparator {
		group := alternateGroup(rules.DecimalSeparator)
		s.log().WithField("group", string(group)).Debug("separator override collides with locale, switching group separator")
		rules = rules.WithSeparators(0, group)
	}
	return rules
}

func (s *Session) affixes() (prefix, suffix string) {
	if s.cfg.hasPrefix || s.cfg.hasSuffix {
		return s.cfg.prefix, s.cfg.suffix
	}
	return s.rules.Prefix(), s.rules.Suffix()
}

func (s *Session) parseOptions() parseOptions {
	prefix, suffix := s.affixes()
	return parseOptions{
		allowNegative: s.cfg.allowNegative,
		decimalsLimit: s.rules.FractionDigits,
		maxLength:     s.cfg.maxLength,
		abbreviations: s.cfg.abbreviations,
		affixes:       []string{prefix, suffix, s.rules.Symbol, s.rules.Prefix(), s.rules.Suffix()},
	}
}

// commitScale is the configured decimal scale clamped to the current limit,
// or -1 when no scale is configured.
func (s *Session) commitScale() int {
	if s.cfg.decimalScale < 0 {
		return -1
	}
	return min(s.cfg.decimalScale, s.rules.FractionDigits)
}

func (s *Session) log() *logrus.Entry {
	return loggerOrDefault(s.cfg.logger).WithFields(logrus.Fields{
		"locale":   s.locale,
		"currency": s.currency,
	})
}

func alternateGroup(decimalSep rune) rune {
	if decimalSep == ',' {
		return '.'
	}
	return ','
}
