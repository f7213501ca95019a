package currencyinput

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, locale, currency string, opts ...Option) *Session {
	t.Helper()
	session, err := NewSession(locale, currency, opts...)
	require.NoError(t, err)
	return session
}

// edit describes one keystroke as the host reports it.
type edit struct {
	proposed string
	cursor   int
	display  string
	caret    int
	value    RawValue
	changed  bool
}

func runEdits(t *testing.T, session *Session, edits []edit) {
	t.Helper()
	for i, e := range edits {
		got := session.ApplyEdit(e.proposed, e.cursor)
		assert.Equal(t, e.display, got.Display, "step %d: ApplyEdit(%q, %d) display", i, e.proposed, e.cursor)
		assert.Equal(t, e.caret, got.Cursor, "step %d: ApplyEdit(%q, %d) cursor", i, e.proposed, e.cursor)
		assert.Equal(t, e.value, got.Value, "step %d: ApplyEdit(%q, %d) value", i, e.proposed, e.cursor)
		assert.Equal(t, e.changed, got.Changed, "step %d: ApplyEdit(%q, %d) changed", i, e.proposed, e.cursor)
	}
}

func TestNewSession_StartsEmpty(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	result := session.Result()

	assert.Empty(t, result.Display)
	assert.Zero(t, result.Cursor)
	assert.False(t, result.Number.Valid)
	assert.Equal(t, RawValue(""), session.Value())
}

func TestSession_SetRawValue(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		currency string
		raw      string
		display  string
		value    RawValue
	}{
		{"en-US", "en-US", "USD", "1000000", "$1,000,000", "1000000"},
		{"de-DE", "de-DE", "EUR", "1234.5", "1.234,5\u00a0€", "1234.5"},
		{"truncates", "en-US", "USD", "12.345", "$12.34", "12.34"},
		{"yen drops fraction", "ja-JP", "JPY", "1000.50", "¥1,000", "1000"},
		{"collapses zeros", "en-US", "USD", " 007 ", "$7", "7"},
		{"negative", "en-US", "USD", "-5", "-$5", "-5"},
		{"unknown locale", "xx-ZZ", "USD", "1234.5", "$1,234.5", "1234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, tt.locale, tt.currency)
			got := session.SetRawValue(tt.raw)

			assert.True(t, got.Changed)
			assert.Equal(t, tt.display, got.Display)
			assert.Equal(t, len([]rune(tt.display)), got.Cursor, "cursor placed at end")
			assert.Equal(t, tt.value, got.Value)
			assert.True(t, got.Number.Valid)
		})
	}
}

func TestSession_SetRawValueRejectsMalformedInput(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("42")

	got := session.SetRawValue("4x2")
	assert.False(t, got.Changed)
	assert.Equal(t, "$42", got.Display)
	assert.Equal(t, RawValue("42"), session.Value())

	noNegatives := newTestSession(t, "en-US", "USD", WithAllowNegative(false))
	assert.False(t, noNegatives.SetRawValue("-1").Changed)
}

func TestSession_SetDisplayValue(t *testing.T) {
	session := newTestSession(t, "de-DE", "EUR")

	got := session.SetDisplayValue("1.234,56\u00a0€")
	assert.Equal(t, "1.234,56\u00a0€", got.Display)
	assert.Equal(t, RawValue("1234.56"), got.Value)
	assert.Equal(t, "1234.56", got.Number.Decimal.StringFixed(2))
}

func TestSession_TypingFromEmpty(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")

	runEdits(t, session, []edit{
		{proposed: "1", cursor: 1, display: "$1", caret: 2, value: "1", changed: true},
		{proposed: "$12", cursor: 3, display: "$12", caret: 3, value: "12", changed: true},
		{proposed: "$123", cursor: 4, display: "$123", caret: 4, value: "123", changed: true},
		{proposed: "$1234", cursor: 5, display: "$1,234", caret: 6, value: "1234", changed: true},
		{proposed: "$1,234.", cursor: 7, display: "$1,234.", caret: 7, value: "1234.", changed: true},
		{proposed: "$1,234.5", cursor: 8, display: "$1,234.5", caret: 8, value: "1234.5", changed: true},
		{proposed: "$1,234.56", cursor: 9, display: "$1,234.56", caret: 9, value: "1234.56", changed: true},
		{proposed: "$1,234.567", cursor: 10, display: "$1,234.56", caret: 9, value: "1234.56", changed: true},
	})
}

func TestSession_CursorStaysOnDigit(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("1000000.00")
	require.Equal(t, "$1,000,000.00", session.Result().Display)

	// caret right after the second group separator
	got := session.ApplyEdit("$1,000,5000.00", 8)
	assert.Equal(t, "$10,005,000.00", got.Display)
	assert.Equal(t, 7, got.Cursor)
	assert.Equal(t, '5', []rune(got.Display)[got.Cursor-1])
	assert.NotEqual(t, ',', []rune(got.Display)[got.Cursor-1])
}

func TestSession_DeletingGroupSeparator(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("1000")

	got := session.ApplyEdit("$1000", 2)
	assert.Equal(t, "$1,000", got.Display)
	assert.Equal(t, 2, got.Cursor)

	got = session.ApplyEdit("$,000", 1)
	assert.Equal(t, "$0", got.Display)
	assert.Equal(t, RawValue("0"), got.Value)
	assert.Equal(t, 1, got.Cursor)
}

func TestSession_RejectedEdits(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		seed     string
		proposed string
		cursor   int
	}{
		{name: "second decimal separator", seed: "1.23", proposed: "$1.2.3", cursor: 5},
		{name: "trailing sign", seed: "12", proposed: "$12-", cursor: 4},
		{name: "double sign", seed: "-12", proposed: "--$12", cursor: 1},
		{name: "stray letter", seed: "12", proposed: "$12x", cursor: 4},
		{name: "negatives disabled", opts: []Option{WithAllowNegative(false)}, seed: "12", proposed: "-$12", cursor: 1},
		{name: "decimals disabled", opts: []Option{WithAllowDecimals(false)}, seed: "12", proposed: "$12.", cursor: 4},
		{name: "too many digits", opts: []Option{WithMaxLength(3)}, seed: "123", proposed: "$1234", cursor: 5},
		{name: "abbreviation disabled", seed: "12", proposed: "$12k", cursor: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, "en-US", "USD", tt.opts...)
			before := session.SetRawValue(tt.seed)

			got := session.ApplyEdit(tt.proposed, tt.cursor)
			assert.False(t, got.Changed)
			assert.Equal(t, before.Display, got.Display)
			assert.Equal(t, before.Cursor, got.Cursor)
			assert.Equal(t, before.Value, session.Value())
			assert.True(t, session.Result().Changed, "stored result is the last accepted one")
		})
	}
}

func TestSession_NegativeTyping(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")

	runEdits(t, session, []edit{
		{proposed: "-", cursor: 1, display: "-$", caret: 2, value: "-", changed: true},
		{proposed: "-$5", cursor: 3, display: "-$5", caret: 3, value: "-5", changed: true},
		{proposed: "-$5-", cursor: 4, display: "-$5", caret: 3, value: "-5", changed: false},
	})
	assert.Equal(t, "-5", session.Result().Number.Decimal.String())
}

func TestSession_LeadingDecimalAndZeros(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")

	runEdits(t, session, []edit{
		{proposed: ".", cursor: 1, display: "$0.", caret: 3, value: "0.", changed: true},
		{proposed: "$0.5", cursor: 4, display: "$0.5", caret: 4, value: "0.5", changed: true},
	})

	session.Clear()
	runEdits(t, session, []edit{
		{proposed: "0", cursor: 1, display: "$0", caret: 2, value: "0", changed: true},
		{proposed: "$05", cursor: 3, display: "$5", caret: 2, value: "5", changed: true},
	})
}

func TestSession_SuffixLocale(t *testing.T) {
	session := newTestSession(t, "de-DE", "EUR")

	runEdits(t, session, []edit{
		{proposed: "1", cursor: 1, display: "1\u00a0€", caret: 1, value: "1", changed: true},
		{proposed: "12\u00a0€", cursor: 2, display: "12\u00a0€", caret: 2, value: "12", changed: true},
		{proposed: "1234\u00a0€", cursor: 4, display: "1.234\u00a0€", caret: 5, value: "1234", changed: true},
		{proposed: "1.234,\u00a0€", cursor: 6, display: "1.234,\u00a0€", caret: 6, value: "1234.", changed: true},
		{proposed: "1.234,5\u00a0€", cursor: 7, display: "1.234,5\u00a0€", caret: 7, value: "1234.5", changed: true},
		{proposed: "1.234,5,\u00a0€", cursor: 8, display: "1.234,5\u00a0€", caret: 7, value: "1234.5", changed: false},
	})
}

func TestSession_ZeroDecimalCurrency(t *testing.T) {
	session := newTestSession(t, "ja-JP", "JPY")
	session.SetRawValue("12")

	got := session.ApplyEdit("¥12.", 4)
	assert.False(t, got.Changed, "yen has no fraction digits")

	limited := newTestSession(t, "ja-JP", "JPY", WithDecimalsLimit(2))
	limited.SetRawValue("12")
	got = limited.ApplyEdit("¥12.", 4)
	assert.True(t, got.Changed)
	assert.Equal(t, "¥12.", got.Display)
}

func TestSession_LocaleChangeKeepsCurrencyDigits(t *testing.T) {
	session := newTestSession(t, "ja-JP", "JPY")
	session.SetRawValue("1234")

	for _, locale := range []string{"de-DE", "fr-FR", "en-US", "hi-IN", "xx-ZZ"} {
		got := session.SetLocale(locale)
		assert.Equal(t, 0, session.Rules().FractionDigits, locale)
		assert.Equal(t, RawValue("1234"), got.Value, locale)
		assert.Equal(t, len([]rune(got.Display)), got.Cursor, locale)
	}

	limited := newTestSession(t, "ja-JP", "JPY", WithDecimalsLimit(2))
	limited.SetLocale("de-DE")
	assert.Equal(t, 2, limited.Rules().FractionDigits)
}

func TestSession_SetLocaleRerenders(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("1234.5")

	got := session.SetLocale("de-DE")
	assert.Equal(t, "1.234,5\u00a0$", got.Display)
	assert.Equal(t, RawValue("1234.5"), got.Value)
	assert.Equal(t, "de-DE", session.Rules().Locale)
}

func TestSession_SetCurrencyTruncates(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("1234.56")

	got := session.SetCurrency("JPY")
	assert.Equal(t, "¥1,234", got.Display)
	assert.Equal(t, RawValue("1234"), got.Value)

	got = session.SetIntlConfig("de-DE", "EUR")
	assert.Equal(t, "1.234\u00a0€", got.Display)
}

func TestSession_Clear(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")
	session.SetRawValue("99.5")

	got := session.Clear()
	assert.Empty(t, got.Display)
	assert.Zero(t, got.Cursor)
	assert.False(t, got.Number.Valid)
	assert.Equal(t, RawValue(""), session.Value())

	placeholder := newTestSession(t, "de-DE", "EUR", WithZeroPlaceholder())
	placeholder.SetRawValue("12")
	got = placeholder.Clear()
	assert.Equal(t, "0,00\u00a0€", got.Display)
	assert.Equal(t, RawValue(""), got.Value)
	assert.False(t, got.Number.Valid)

	// typing replaces the placeholder
	got = placeholder.ApplyEdit("5", 1)
	assert.Equal(t, "5\u00a0€", got.Display)
}

func TestSession_Commit(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		seed    string
		display string
		value   RawValue
	}{
		{name: "dangling separator", seed: "12.", display: "$12", value: "12"},
		{name: "lone sign", seed: "-", display: "", value: ""},
		{name: "keeps typed fraction", seed: "12.5", display: "$12.5", value: "12.5"},
		{name: "pads to scale", opts: []Option{WithDecimalScale(2)}, seed: "12.5", display: "$12.50", value: "12.50"},
		{name: "negative zero", seed: "-0.0", display: "$0.0", value: "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, "en-US", "USD", tt.opts...)
			session.SetRawValue(tt.seed)

			got := session.Commit()
			assert.Equal(t, tt.display, got.Display)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestSession_Step(t *testing.T) {
	session := newTestSession(t, "en-US", "USD")

	assert.Equal(t, "$1", session.Step(1).Display)
	assert.Equal(t, "$3", session.Step(2).Display)

	session.SetRawValue("1.5")
	assert.Equal(t, "$0.5", session.Step(-1).Display)

	quarter := newTestSession(t, "en-US", "USD", WithStep(decimal.RequireFromString("0.25")))
	assert.Equal(t, "-$0.25", quarter.Step(-1).Display)

	positive := newTestSession(t, "en-US", "USD", WithStep(decimal.RequireFromString("0.25")), WithAllowNegative(false))
	got := positive.Step(-4)
	assert.Equal(t, "$0.00", got.Display)
	assert.Equal(t, RawValue("0.00"), got.Value)

	capped := newTestSession(t, "en-US", "USD", WithMaxLength(2))
	capped.SetRawValue("99")
	assert.False(t, capped.Step(1).Changed)
}

func TestSession_Abbreviations(t *testing.T) {
	session := newTestSession(t, "en-US", "USD", WithAbbreviations())

	runEdits(t, session, []edit{
		{proposed: "2.5m", cursor: 4, display: "$2,500,000", caret: 10, value: "2500000", changed: true},
		{proposed: "1k", cursor: 2, display: "$1,000", caret: 6, value: "1000", changed: true},
		{proposed: "k", cursor: 1, display: "$1,000", caret: 6, value: "1000", changed: false},
	})
}

func TestSession_PartlyDeletedSymbolIsNotAnAbbreviation(t *testing.T) {
	session := newTestSession(t, "sv-SE", "SEK", WithAbbreviations())
	require.Equal(t, "12\u00a0kr", session.SetRawValue("12").Display)

	runEdits(t, session, []edit{
		{proposed: "12\u00a0k", cursor: 4, display: "12\u00a0kr", caret: 2, value: "12", changed: true},
		{proposed: "12k\u00a0kr", cursor: 3, display: "12\u00a0kr", caret: 2, value: "12", changed: true},
		{proposed: "12m\u00a0kr", cursor: 3, display: "12\u00a0000\u00a0000\u00a0kr", caret: 13, value: "12000000", changed: true},
	})
}

func TestSession_SymbolContainingDecimalSeparator(t *testing.T) {
	session := newTestSession(t, "ar-EG", "EGP")
	require.Equal(t, "1,234.5\u00a0ج.م.\u200f", session.SetRawValue("1234.5").Display)

	runEdits(t, session, []edit{
		// backspace after the trailing mark
		{proposed: "1,234.5\u00a0ج.م.", cursor: 12, display: "1,234.5\u00a0ج.م.\u200f", caret: 7, value: "1234.5", changed: true},
		{proposed: "1,234.5\u00a0ج.م", cursor: 11, display: "1,234.5\u00a0ج.م.\u200f", caret: 7, value: "1234.5", changed: true},
		{proposed: "1,234.\u00a0ج.م.\u200f", cursor: 6, display: "1,234.\u00a0ج.م.\u200f", caret: 6, value: "1234.", changed: true},
		{proposed: "1,234.\u00a0.ج.م.\u200f", cursor: 8, display: "1,234.\u00a0ج.م.\u200f", caret: 6, value: "1234.", changed: true},
		{proposed: "1,234..\u00a0ج.م.\u200f", cursor: 7, display: "1,234.\u00a0ج.م.\u200f", caret: 6, value: "1234.", changed: true},
	})
}

func TestSession_CustomAffixesAndSeparators(t *testing.T) {
	session := newTestSession(t, "en-US", "USD",
		WithPrefix("USD "),
		WithDecimalSeparator(','),
		WithGroupSeparator('.'),
	)

	got := session.SetRawValue("1234.5")
	assert.Equal(t, "USD 1.234,5", got.Display)

	got = session.ApplyEdit("USD 1.234,56", 12)
	assert.Equal(t, "USD 1.234,56", got.Display)
	assert.Equal(t, RawValue("1234.56"), got.Value)

	plain := newTestSession(t, "en-US", "USD", WithSuffix(" pts"), WithDisableGroupSeparators())
	assert.Equal(t, "1234 pts", plain.SetRawValue("1234").Display)
	assert.Equal(t, "12345 pts", plain.ApplyEdit("12345 pts", 5).Display)
}

func TestSession_DecimalOverrideAvoidsCollision(t *testing.T) {
	session := newTestSession(t, "en-US", "USD", WithDecimalSeparator(','))

	rules := session.Rules()
	assert.Equal(t, ',', rules.DecimalSeparator)
	assert.Equal(t, '.', rules.GroupSeparator)
	assert.Equal(t, "$1.234,5", session.SetRawValue("1234.5").Display)
}

func TestNewSession_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"negative decimals limit", []Option{WithDecimalsLimit(-1)}},
		{"negative max length", []Option{WithMaxLength(-1)}},
		{"negative decimal scale", []Option{WithDecimalScale(-2)}},
		{"scale above limit", []Option{WithDecimalsLimit(1), WithDecimalScale(2)}},
		{"scale without decimals", []Option{WithAllowDecimals(false), WithDecimalScale(2)}},
		{"equal separators", []Option{WithDecimalSeparator(','), WithGroupSeparator(',')}},
		{"digit separator", []Option{WithGroupSeparator('5')}},
		{"sign separator", []Option{WithDecimalSeparator('-')}},
		{"zero step", []Option{WithStep(decimal.Zero)}},
		{"negative step", []Option{WithStep(decimal.NewFromInt(-1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession("en-US", "USD", tt.opts...)
			assert.Nil(t, session)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewSession error = %v; want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestSession_LogsRejectedEdits(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	session := newTestSession(t, "en-US", "USD", WithLogger(logger))
	session.ApplyEdit("$1x", 3)

	assert.Contains(t, buf.String(), "edit rejected")
	assert.Contains(t, buf.String(), "locale=en-US")
}

func TestSession_IndependentSessions(t *testing.T) {
	first := newTestSession(t, "en-US", "USD")
	second := newTestSession(t, "de-DE", "EUR")

	first.SetRawValue("1")
	second.SetRawValue("2")

	assert.Equal(t, RawValue("1"), first.Value())
	assert.Equal(t, RawValue("2"), second.Value())
}
