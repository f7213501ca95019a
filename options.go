package currencyinput

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// sessionConfig captures how a Session edits and renders its field.
type sessionConfig struct {
	resolver *Resolver
	logger   *logrus.Logger

	decimalsLimit    int
	hasDecimalsLimit bool
	allowNegative    bool
	allowDecimals    bool
	disableGrouping  bool

	prefix, suffix       string
	hasPrefix, hasSuffix bool
	decimalSeparator     rune
	groupSeparator       rune

	maxLength       int
	abbreviations   bool
	decimalScale    int
	step            decimal.Decimal
	zeroPlaceholder bool
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		allowNegative: true,
		allowDecimals: true,
		decimalScale:  -1,
		step:          decimal.NewFromInt(1),
	}
}

// Option mutates the session configuration during construction
type Option func(*sessionConfig) error

// WithDecimalsLimit caps fraction digits, overriding what the currency implies.
func WithDecimalsLimit(n int) Option {
	return func(c *sessionConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: decimals limit %d is negative", ErrInvalidConfiguration, n)
		}
		c.decimalsLimit = n
		c.hasDecimalsLimit = true
		return nil
	}
}

func WithResolver(resolver *Resolver) Option {
	return func(c *sessionConfig) error {
		c.resolver = resolver
		return nil
	}
}

func WithAllowNegative(allow bool) Option {
	return func(c *sessionConfig) error {
		c.allowNegative = allow
		return nil
	}
}

// WithAllowDecimals(false) restricts the field to whole amounts.
func WithAllowDecimals(allow bool) Option {
	return func(c *sessionConfig) error {
		c.allowDecimals = allow
		return nil
	}
}

func WithDisableGroupSeparators() Option {
	return func(c *sessionConfig) error {
		c.disableGrouping = true
		return nil
	}
}

// WithPrefix replaces the text rendered before the amount. The currency
// symbol is no longer placed by the locale.
func WithPrefix(prefix string) Option {
	return func(c *sessionConfig) error {
		c.prefix = prefix
		c.hasPrefix = true
		return nil
	}
}

// WithSuffix replaces the text rendered after the amount.
func WithSuffix(suffix string) Option {
	return func(c *sessionConfig) error {
		c.suffix = suffix
		c.hasSuffix = true
		return nil
	}
}

func WithDecimalSeparator(sep rune) Option {
	return func(c *sessionConfig) error {
		if err := validateSeparator(sep); err != nil {
			return fmt.Errorf("%w: decimal separator: %v", ErrInvalidConfiguration, err)
		}
		c.decimalSeparator = sep
		return nil
	}
}

func WithGroupSeparator(sep rune) Option {
	return func(c *sessionConfig) error {
		if err := validateSeparator(sep); err != nil {
			return fmt.Errorf("%w: group separator: %v", ErrInvalidConfiguration, err)
		}
		c.groupSeparator = sep
		return nil
	}
}

// WithMaxLength caps the number of digits in the value. Zero means no cap.
func WithMaxLength(n int) Option {
	return func(c *sessionConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: max length %d is negative", ErrInvalidConfiguration, n)
		}
		c.maxLength = n
		return nil
	}
}

// WithAbbreviations enables k, m and b shorthand for thousands, millions and billions.
func WithAbbreviations() Option {
	return func(c *sessionConfig) error {
		c.abbreviations = true
		return nil
	}
}

// WithDecimalScale pads the fraction to n digits on Commit.
func WithDecimalScale(n int) Option {
	return func(c *sessionConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: decimal scale %d is negative", ErrInvalidConfiguration, n)
		}
		c.decimalScale = n
		return nil
	}
}

// WithStep sets the increment used by Step.
func WithStep(step decimal.Decimal) Option {
	return func(c *sessionConfig) error {
		if !step.IsPositive() {
			return fmt.Errorf("%w: step %s is not positive", ErrInvalidConfiguration, step)
		}
		c.step = step
		return nil
	}
}

// WithZeroPlaceholder makes Clear render zero instead of an empty field.
func WithZeroPlaceholder() Option {
	return func(c *sessionConfig) error {
		c.zeroPlaceholder = true
		return nil
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *sessionConfig) error {
		c.logger = logger
		return nil
	}
}

func validateSeparator(sep rune) error {
	switch {
	case sep == 0:
		return fmt.Errorf("empty")
	case sep >= '0' && sep <= '9', isMinusSign(sep):
		return fmt.Errorf("%q is numerically significant", sep)
	}
	return nil
}

// validate checks option combinations that only make sense together.
func (c sessionConfig) validate() error {
	if c.decimalSeparator != 0 && c.decimalSeparator == c.groupSeparator {
		return fmt.Errorf("%w: decimal and group separator are both %q", ErrInvalidConfiguration, c.decimalSeparator)
	}
	if c.decimalScale > 0 && !c.allowDecimals {
		return fmt.Errorf("%w: decimal scale %d with decimals disabled", ErrInvalidConfiguration, c.decimalScale)
	}
	if c.hasDecimalsLimit && c.decimalScale > c.decimalsLimit {
		return fmt.Errorf("%w: decimal scale %d exceeds decimals limit %d", ErrInvalidConfiguration, c.decimalScale, c.decimalsLimit)
	}
	return nil
}
