package currencyinput

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/currency_conventions.yaml
var defaultConventionsYAML []byte

// ConventionsLoader loads symbol conventions from the embedded table, an
// optional user file and per-locale override files.
type ConventionsLoader struct {
	defaultPath string
	overrides   map[string]string
}

// NewConventionsLoader creates a loader. An empty path loads only the embedded table.
func NewConventionsLoader(defaultPath string) *ConventionsLoader {
	return &ConventionsLoader{
		defaultPath: defaultPath,
		overrides:   make(map[string]string),
	}
}

// Load merges embedded, user and override data, later sources taking precedence.
func (l *ConventionsLoader) Load() (*ConventionsData, error) {
	var data ConventionsData
	if err := yaml.Unmarshal(defaultConventionsYAML, &data); err != nil {
		return nil, fmt.Errorf("parse default conventions: %w", err)
	}
	if err := data.normalize(); err != nil {
		return nil, fmt.Errorf("default conventions: %w", err)
	}

	if l.defaultPath != "" {
		userData, err := readConventionsFile(l.defaultPath)
		if err != nil {
			return nil, fmt.Errorf("load conventions: %w", err)
		}
		data.merge(userData)
	}

	for locale, path := range l.overrides {
		override, err := readConventionsFile(path)
		if err != nil {
			return nil, fmt.Errorf("load conventions override for %q: %w", locale, err)
		}
		data.merge(override)
	}

	return &data, nil
}

// AddOverride adds a locale-specific override file
func (l *ConventionsLoader) AddOverride(locale, path string) {
	l.overrides[normalizeLocale(locale)] = path
}

func readConventionsFile(path string) (*ConventionsData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data ConventionsData
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := data.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &data, nil
}

func (d *ConventionsData) normalize() error {
	if len(d.Conventions) == 0 {
		return nil
	}

	normalized := make(map[string]SymbolConventions, len(d.Conventions))
	for locale, conventions := range d.Conventions {
		key := normalizeLocale(locale)
		if key == "" {
			return fmt.Errorf("empty locale key")
		}
		conventions = conventions.normalized()
		if err := conventions.validate(); err != nil {
			return fmt.Errorf("locale %q: %w", key, err)
		}
		normalized[key] = conventions
	}
	d.Conventions = normalized
	return nil
}

// merge merges source into d (source takes precedence)
func (d *ConventionsData) merge(source *ConventionsData) {
	if source == nil || source.Conventions == nil {
		return
	}
	if d.Conventions == nil {
		d.Conventions = make(map[string]SymbolConventions, len(source.Conventions))
	}
	for k, v := range source.Conventions {
		d.Conventions[k] = v
	}
}

var defaultConventions = mustLoadDefaultConventions()

func mustLoadDefaultConventions() *ConventionsProvider {
	data, err := NewConventionsLoader("").Load()
	if err != nil {
		panic(fmt.Sprintf("currencyinput: embedded conventions: %v", err))
	}
	return NewConventionsProvider(data, nil)
}
