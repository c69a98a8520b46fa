// =============================================================================
// localesheet - Configuration Module
// =============================================================================
//
// Loads the application configuration from a YAML file (localesheet.yaml by
// default), applies defaults and validates it. Every setting is carried in
// the Config struct and threaded explicitly through the converter; nothing
// here is ambient state.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// =========================================================================
	// LANGUAGE FILE SETTINGS
	// =========================================================================

	// LocalesDir is the directory holding the language resource files.
	// Default: "./locales"
	LocalesDir string `yaml:"locales_dir"`

	// Format selects the resource file format: "json" or "js".
	// Default: "json"
	Format string `yaml:"format"`

	// Languages lists the language identifiers to process, in order.
	// One resource file per language is expected in LocalesDir.
	Languages []string `yaml:"languages"`

	// Baseline is the language whose key order defines spreadsheet row
	// order on export. Default: the first entry of Languages.
	Baseline string `yaml:"baseline"`

	// =========================================================================
	// SPREADSHEET SETTINGS
	// =========================================================================

	// SheetPath is the spreadsheet file written by export and read by
	// import. Default: "./translations.xlsx"
	SheetPath string `yaml:"sheet_path"`

	// SheetName is the worksheet name. Default: "Translations"
	SheetName string `yaml:"sheet_name"`

	// KeyColumn is the header of the key-path column. Default: "key"
	KeyColumn string `yaml:"key_column"`

	// Delimiter joins key path segments in the key column. It must be a
	// single character that never appears inside key segments; pick another
	// one (e.g. "/") if your keys legitimately contain dots.
	// Default: "."
	Delimiter string `yaml:"delimiter"`

	// =========================================================================
	// CONVERSION SETTINGS
	// =========================================================================

	// Indent is the number of spaces per nesting level when serializing
	// language files. Default: 2
	Indent int `yaml:"indent"`

	// StringifyScalars enables the permissive parse mode: non-string JSON
	// leaves (numbers, booleans, nulls) are coerced to strings instead of
	// failing. Default: false
	StringifyScalars bool `yaml:"stringify_scalars"`

	// NormalizeBreaks rewrites "<br/>" in spreadsheet cells to a newline on
	// import. Default: true
	NormalizeBreaks *bool `yaml:"normalize_breaks"`

	// ApplyDeletions removes keys absent from the spreadsheet on import.
	// When false (the default) such keys are only reported; the --prune
	// flag overrides this per run.
	ApplyDeletions bool `yaml:"apply_deletions"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// NormalizeBreaksEnabled resolves the tri-state normalize_breaks setting.
func (c *Config) NormalizeBreaksEnabled() bool {
	return c.NormalizeBreaks == nil || *c.NormalizeBreaks
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.LocalesDir == "" {
		cfg.LocalesDir = "./locales"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Baseline == "" && len(cfg.Languages) > 0 {
		cfg.Baseline = cfg.Languages[0]
	}
	if cfg.SheetPath == "" {
		cfg.SheetPath = "./translations.xlsx"
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Translations"
	}
	if cfg.KeyColumn == "" {
		cfg.KeyColumn = "key"
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = "."
	}
	if cfg.Indent == 0 {
		cfg.Indent = 2
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate rejects configurations the converter cannot run with.
func validate(cfg *Config) error {
	if len(cfg.Languages) == 0 {
		return fmt.Errorf("languages must list at least one language")
	}
	seen := make(map[string]bool)
	for _, lang := range cfg.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("languages must not contain empty entries")
		}
		if seen[lang] {
			return fmt.Errorf("language %q is listed twice", lang)
		}
		seen[lang] = true
	}
	if !seen[cfg.Baseline] {
		return fmt.Errorf("baseline %q is not one of the configured languages", cfg.Baseline)
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "js":
	default:
		return fmt.Errorf("format %q is not supported (use json or js)", cfg.Format)
	}

	if utf8.RuneCountInString(cfg.Delimiter) != 1 {
		return fmt.Errorf("delimiter %q must be a single character", cfg.Delimiter)
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("indent must not be negative")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", cfg.LogLevel)
	}
	return nil
}
