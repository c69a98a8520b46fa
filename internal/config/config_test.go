package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localesheet/localesheet/internal/config"
)

// writeConfig drops a YAML config into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localesheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, `
languages:
  - en_us
  - de_de
`))
	require.NoError(t, err)

	assert.Equal(t, "./locales", cfg.LocalesDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "en_us", cfg.Baseline)
	assert.Equal(t, "./translations.xlsx", cfg.SheetPath)
	assert.Equal(t, "Translations", cfg.SheetName)
	assert.Equal(t, "key", cfg.KeyColumn)
	assert.Equal(t, ".", cfg.Delimiter)
	assert.Equal(t, 2, cfg.Indent)
	assert.False(t, cfg.StringifyScalars)
	assert.True(t, cfg.NormalizeBreaksEnabled())
	assert.False(t, cfg.ApplyDeletions)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, `
locales_dir: ./src/locales
format: js
languages: [en_us, zh_cn, de_de]
baseline: zh_cn
sheet_path: ./out/i18n.xlsx
sheet_name: Strings
key_column: identifier
delimiter: "/"
indent: 4
stringify_scalars: true
normalize_breaks: false
apply_deletions: true
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "./src/locales", cfg.LocalesDir)
	assert.Equal(t, "js", cfg.Format)
	assert.Equal(t, []string{"en_us", "zh_cn", "de_de"}, cfg.Languages)
	assert.Equal(t, "zh_cn", cfg.Baseline)
	assert.Equal(t, "Strings", cfg.SheetName)
	assert.Equal(t, "/", cfg.Delimiter)
	assert.Equal(t, 4, cfg.Indent)
	assert.True(t, cfg.StringifyScalars)
	assert.False(t, cfg.NormalizeBreaksEnabled())
	assert.True(t, cfg.ApplyDeletions)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, "languages: [en_us\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "no languages",
			yaml:    `format: json`,
			wantMsg: "at least one language",
		},
		{
			name:    "duplicate language",
			yaml:    "languages: [en_us, en_us]",
			wantMsg: "listed twice",
		},
		{
			name:    "empty language entry",
			yaml:    "languages: [en_us, \"\"]",
			wantMsg: "empty entries",
		},
		{
			name:    "baseline not listed",
			yaml:    "languages: [en_us]\nbaseline: fr_fr",
			wantMsg: "baseline",
		},
		{
			name:    "bad format",
			yaml:    "languages: [en_us]\nformat: yaml",
			wantMsg: "not supported",
		},
		{
			name:    "multi-char delimiter",
			yaml:    "languages: [en_us]\ndelimiter: '::'",
			wantMsg: "single character",
		},
		{
			name:    "negative indent",
			yaml:    "languages: [en_us]\nindent: -1",
			wantMsg: "indent",
		},
		{
			name:    "bad log level",
			yaml:    "languages: [en_us]\nlog_level: loud",
			wantMsg: "log_level",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestDelimiterAllowsMultibyteRune(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, "languages: [en_us]\ndelimiter: '→'"))
	require.NoError(t, err)
	assert.Equal(t, "→", cfg.Delimiter)
}
