package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	currencyinput "github.com/goliatone/go-currency-input"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cldr "golang.org/x/text/unicode/cldr"
	"gopkg.in/yaml.v3"
)

const currencySign = '¤'

var (
	log = logrus.New()
	cfg = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "currency-conventions",
	Short: "Generate currency symbol conventions from CLDR",
	Long: `currency-conventions reads the standard currency pattern of each CLDR locale
and writes where the currency symbol goes and whether it is spaced from the amount.

Example:
  currency-conventions --cldr $CLDR_CORE_DIR --locale fr,de-CH --out data/currency_conventions.yaml`,
	SilenceUsage: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		if cfg.GetBool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cldrPath := cfg.GetString("cldr")
		if cldrPath == "" {
			return errors.New("missing CLDR data directory (set --cldr or CLDR_CORE_DIR)")
		}
		return run(cldrPath, cfg.GetString("out"), cfg.GetStringSlice("locale"))
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.String("cldr", "", "path to CLDR core data directory (expects main/)")
	flags.StringP("out", "o", "data/currency_conventions.yaml", "path to generated YAML file")
	flags.StringSliceP("locale", "l", nil, "locales to generate; all CLDR locales when empty")
	flags.BoolP("verbose", "v", false, "log every locale")

	bindConfig(cfg, rootCmd)
}

// bindConfig lets every flag be set from CURRENCY_CONVENTIONS_<NAME>. The CLDR
// directory also honours CLDR_CORE_DIR.
func bindConfig(v *viper.Viper, cmd *cobra.Command) {
	v.SetEnvPrefix("currency_conventions")
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		log.WithError(err).Fatal("bind flags")
	}
	if err := v.BindEnv("cldr", "CURRENCY_CONVENTIONS_CLDR", "CLDR_CORE_DIR"); err != nil {
		log.WithError(err).Fatal("bind env")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "currency-conventions: %v\n", err)
		os.Exit(1)
	}
}

func run(path, out string, requested []string) error {
	data, err := loadCLDR(path)
	if err != nil {
		return err
	}

	if len(requested) == 0 {
		requested = data.Locales()
	}

	table := currencyinput.ConventionsData{
		Conventions: make(map[string]currencyinput.SymbolConventions),
	}
	if root := data.RawLDML("root"); root != nil {
		if conventions, err := conventionsForLDML(root); err == nil {
			table.Conventions["default"] = conventions
		}
	}

	for _, locale := range requested {
		key := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
		if key == "" || key == "root" {
			continue
		}

		ldml := findLDML(data, key)
		if ldml == nil {
			log.WithField("locale", key).Warn("no LDML data, skipping")
			continue
		}

		conventions, err := conventionsForLDML(ldml)
		if err != nil {
			log.WithField("locale", key).WithError(err).Debug("no currency pattern, skipping")
			continue
		}
		log.WithFields(logrus.Fields{
			"locale":   key,
			"position": conventions.SymbolPosition,
			"spacing":  conventions.SymbolSpacing,
		}).Debug("classified")
		table.Conventions[key] = conventions
	}

	pruneInherited(table.Conventions)

	source, err := renderYAML(table)
	if err != nil {
		return err
	}
	if err := ensureDir(out); err != nil {
		return err
	}
	log.WithField("locales", len(table.Conventions)).Infof("writing %s", out)
	return os.WriteFile(out, source, 0o644)
}

func loadCLDR(path string) (*cldr.CLDR, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat CLDR directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("CLDR path %q is not a directory", path)
	}

	var decoder cldr.Decoder
	decoder.SetDirFilter("main")
	decoder.SetSectionFilter("numbers")

	data, err := decoder.DecodePath(path)
	if err != nil {
		return nil, fmt.Errorf("decode CLDR data: %w", err)
	}
	return data, nil
}

func findLDML(data *cldr.CLDR, locale string) *cldr.LDML {
	if data == nil {
		return nil
	}
	candidate := strings.ReplaceAll(locale, "-", "_")
	for candidate != "" {
		if ldml := data.RawLDML(candidate); ldml != nil && standardPattern(ldml) != "" {
			return ldml
		}
		idx := strings.LastIndex(candidate, "_")
		if idx < 0 {
			break
		}
		candidate = candidate[:idx]
	}
	return nil
}

// standardPattern returns the latin-digit standard currency pattern, if any.
func standardPattern(ldml *cldr.LDML) string {
	if ldml == nil || ldml.Numbers == nil {
		return ""
	}
	for _, formats := range ldml.Numbers.CurrencyFormats {
		if formats.NumberSystem != "" && formats.NumberSystem != "latn" {
			continue
		}
		for _, length := range formats.CurrencyFormatLength {
			if length.Type != "" {
				continue
			}
			for _, format := range length.CurrencyFormat {
				if format.Type != "standard" || format.Alt != "" {
					continue
				}
				for _, pattern := range format.Pattern {
					if data := pattern.Data(); data != "" {
						return data
					}
				}
			}
		}
	}
	return ""
}

func conventionsForLDML(ldml *cldr.LDML) (currencyinput.SymbolConventions, error) {
	pattern := standardPattern(ldml)
	if pattern == "" {
		return currencyinput.SymbolConventions{}, errors.New("missing standard currency pattern")
	}
	return classifyPattern(pattern)
}

// classifyPattern reads symbol placement out of a CLDR pattern such as
// "#,##0.00 ¤" or "¤#,##0.00;(¤#,##0.00)". Only the positive subpattern counts.
func classifyPattern(pattern string) (currencyinput.SymbolConventions, error) {
	positive, _, _ := strings.Cut(pattern, ";")
	runes := []rune(positive)

	sign, first, last := -1, -1, -1
	for i, r := range runes {
		switch {
		case r == currencySign && sign < 0:
			sign = i
		case r == '#' || r == '0':
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if sign < 0 || first < 0 {
		return currencyinput.SymbolConventions{}, fmt.Errorf("pattern %q has no currency sign or digits", pattern)
	}

	conventions := currencyinput.SymbolConventions{
		SymbolPosition: currencyinput.SymbolBefore,
		SymbolSpacing:  currencyinput.SpacingNone,
	}
	var gap []rune
	switch {
	case sign < first:
		gap = runes[sign+1 : first]
	case sign > last:
		conventions.SymbolPosition = currencyinput.SymbolAfter
		gap = runes[last+1 : sign]
	default:
		return currencyinput.SymbolConventions{}, fmt.Errorf("pattern %q has the currency sign inside the digits", pattern)
	}
	for _, r := range gap {
		if unicode.IsSpace(r) {
			conventions.SymbolSpacing = currencyinput.SpacingSpace
			break
		}
	}
	return conventions, nil
}

// pruneInherited drops regional entries identical to their language entry,
// since lookups fall back to the language anyway.
func pruneInherited(conventions map[string]currencyinput.SymbolConventions) {
	for locale, value := range conventions {
		base, _, ok := strings.Cut(locale, "-")
		if !ok {
			continue
		}
		if parent, exists := conventions[base]; exists && parent == value {
			delete(conventions, locale)
		}
	}
}

func renderYAML(table currencyinput.ConventionsData) ([]byte, error) {
	keys := make([]string, 0, len(table.Conventions))
	for key := range table.Conventions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		value := table.Conventions[key]
		entry := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		entry.Content = append(entry.Content,
			scalar("symbol_position"), scalar(string(value.SymbolPosition)),
			scalar("symbol_spacing"), scalar(string(value.SymbolSpacing)),
		)
		entries.Content = append(entries.Content, scalar(key), entry)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content, scalar("conventions"), entries)

	var buf bytes.Buffer
	buf.WriteString("# Symbol placement per locale, taken from the CLDR standard currency pattern.\n")
	buf.WriteString("# Regenerate with: go run ./cmd/currency-conventions --cldr $CLDR_CORE_DIR\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode conventions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
