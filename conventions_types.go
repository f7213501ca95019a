package currencyinput

import (
	"fmt"
	"strings"
)

// SymbolPosition places the currency symbol relative to the amount.
type SymbolPosition string

const (
	SymbolBefore SymbolPosition = "before"
	SymbolAfter  SymbolPosition = "after"
)

// SymbolSpacing controls the gap between the currency symbol and the amount.
type SymbolSpacing string

const (
	SpacingNone  SymbolSpacing = "none"
	SpacingSpace SymbolSpacing = "space"
)

// SymbolConventions holds the locale-level currency layout that x/text does
// not expose through its public API.
type SymbolConventions struct {
	SymbolPosition SymbolPosition `json:"symbol_position" yaml:"symbol_position"`
	SymbolSpacing  SymbolSpacing  `json:"symbol_spacing" yaml:"symbol_spacing"`
}

// ConventionsData is the on-disk shape of the conventions table
type ConventionsData struct {
	Conventions map[string]SymbolConventions `json:"conventions" yaml:"conventions"`
}

func (c SymbolConventions) validate() error {
	switch c.SymbolPosition {
	case SymbolBefore, SymbolAfter:
	default:
		return fmt.Errorf("unknown symbol position %q", c.SymbolPosition)
	}
	switch c.SymbolSpacing {
	case SpacingNone, SpacingSpace:
	default:
		return fmt.Errorf("unknown symbol spacing %q", c.SymbolSpacing)
	}
	return nil
}

func (c SymbolConventions) normalized() SymbolConventions {
	c.SymbolPosition = SymbolPosition(strings.ToLower(strings.TrimSpace(string(c.SymbolPosition))))
	c.SymbolSpacing = SymbolSpacing(strings.ToLower(strings.TrimSpace(string(c.SymbolSpacing))))
	if c.SymbolSpacing == "" {
		c.SymbolSpacing = SpacingNone
	}
	return c
}
