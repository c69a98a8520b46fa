package converter_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localesheet/localesheet/internal/config"
	"github.com/localesheet/localesheet/internal/converter"
	"github.com/localesheet/localesheet/internal/sheet"
)

// testConfig returns a ready-to-run configuration rooted in a temp dir.
func testConfig(t *testing.T, format string, languages ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LocalesDir: filepath.Join(dir, "locales"),
		Format:     format,
		Languages:  languages,
		Baseline:   languages[0],
		SheetPath:  filepath.Join(dir, "translations.xlsx"),
		SheetName:  "Translations",
		KeyColumn:  "key",
		Delimiter:  ".",
		Indent:     2,
		LogLevel:   "error",
	}
}

func newRunner(t *testing.T, cfg *config.Config) *converter.Runner {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	r, err := converter.New(cfg, log)
	require.NoError(t, err)
	return r
}

func writeLocale(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.LocalesDir, 0755))
	path := filepath.Join(cfg.LocalesDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us", "de_de")
	writeLocale(t, cfg, "en_us.json", `{
  "greeting": "Hello",
  "Home": {
    "title": "Welcome"
  }
}`)
	writeLocale(t, cfg, "de_de.json", `{
  "greeting": "Hallo"
}`)

	r := newRunner(t, cfg)
	summary, err := r.Export("", false)
	require.NoError(t, err)
	assert.Equal(t, cfg.SheetPath, summary.SheetPath)
	assert.Equal(t, 2, summary.Rows)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, 2, summary.Files[0].Keys)
	assert.Equal(t, 1, summary.Files[1].Keys)

	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"en_us", "de_de"}, doc.Languages)
	assert.Equal(t, "Hello", doc.Rows[0].Values["en_us"])
	assert.Equal(t, "Hallo", doc.Rows[0].Values["de_de"])

	// de_de has no Home.title: the cell stays absent.
	_, present := doc.Rows[1].Values["de_de"]
	assert.False(t, present)
}

func TestExportDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us")
	writeLocale(t, cfg, "en_us.json", `{"greeting": "Hello"}`)

	r := newRunner(t, cfg)
	summary, err := r.Export("", true)
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Rows)

	_, err = os.Stat(cfg.SheetPath)
	assert.True(t, os.IsNotExist(err))
}

func TestExportMissingFileUsesEmptyTree(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us", "fr_fr")
	writeLocale(t, cfg, "en_us.json", `{"greeting": "Hello"}`)

	r := newRunner(t, cfg)
	summary, err := r.Export("", false)
	require.NoError(t, err)

	require.Len(t, summary.Files, 2)
	assert.False(t, summary.Files[0].Missing)
	assert.True(t, summary.Files[1].Missing)
	assert.Equal(t, 1, summary.Rows)
}

func TestExportAbortsOnAnyParseFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us", "de_de", "fr_fr")
	writeLocale(t, cfg, "en_us.json", `{"greeting": "Hello"}`)
	writeLocale(t, cfg, "de_de.json", `{"greeting": `)
	writeLocale(t, cfg, "fr_fr.json", `not json at all`)

	r := newRunner(t, cfg)
	_, err := r.Export("", false)
	require.Error(t, err)

	// Both broken files are named in one error, and nothing was written.
	assert.Contains(t, err.Error(), "de_de.json")
	assert.Contains(t, err.Error(), "fr_fr.json")
	_, statErr := os.Stat(cfg.SheetPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportUpdatesOnlyChangedFiles(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us", "de_de")
	writeLocale(t, cfg, "en_us.json", `{
  "greeting": "Hello",
  "farewell": "Bye"
}`)
	// Oddly formatted on purpose: a rewrite would normalize it.
	dePath := writeLocale(t, cfg, "de_de.json", "{\"greeting\":\"Hallo\",\"farewell\":\"Tschüss\"}")
	deOriginal, err := os.ReadFile(dePath)
	require.NoError(t, err)

	r := newRunner(t, cfg)
	_, err = r.Export("", false)
	require.NoError(t, err)

	// Edit only the en_us greeting in the sheet.
	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	doc.Rows[0].Values["en_us"] = "Hello there"
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	summary, err := r.Import("", false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Report.Stats["en_us"].Updated)
	assert.Equal(t, 0, summary.Report.Stats["de_de"].Updated)

	// en_us was rewritten with the new value; key order is intact.
	enData, err := os.ReadFile(filepath.Join(cfg.LocalesDir, "en_us.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"greeting\": \"Hello there\",\n  \"farewell\": \"Bye\"\n}\n", string(enData))

	// de_de had no changes and kept its original bytes.
	deData, err := os.ReadFile(dePath)
	require.NoError(t, err)
	assert.Equal(t, string(deOriginal), string(deData))
}

func TestImportDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us")
	enPath := writeLocale(t, cfg, "en_us.json", "{\n  \"greeting\": \"Hello\"\n}\n")

	r := newRunner(t, cfg)
	_, err := r.Export("", false)
	require.NoError(t, err)

	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	doc.Rows[0].Values["en_us"] = "Changed"
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	summary, err := r.Import("", false, true)
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Report.Stats["en_us"].Updated)

	data, err := os.ReadFile(enPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"greeting\": \"Hello\"\n}\n", string(data))
}

func TestImportCreatesNewLanguageFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us", "ja_jp")
	writeLocale(t, cfg, "en_us.json", "{\n  \"greeting\": \"Hello\"\n}\n")
	// ja_jp has no file yet; the sheet brings its first translation.

	r := newRunner(t, cfg)
	_, err := r.Export("", false)
	require.NoError(t, err)

	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	doc.Rows[0].Values["ja_jp"] = "こんにちは"
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	summary, err := r.Import("", false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Report.Stats["ja_jp"].Added)

	data, err := os.ReadFile(filepath.Join(cfg.LocalesDir, "ja_jp.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"greeting\": \"こんにちは\"\n}\n", string(data))
}

func TestJSCommentsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "js", "en_us")
	original := `export default {
  // shown on load
  greeting: 'Hello',
  Home: {
    title: 'Welcome',
  },
};
`
	writeLocale(t, cfg, "en-us.js", original)

	r := newRunner(t, cfg)
	assert.Equal(t, filepath.Join(cfg.LocalesDir, "en-us.js"), r.LocaleFilePath("en_us"))

	_, err := r.Export("", false)
	require.NoError(t, err)

	// Change one value in the sheet, then import.
	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	require.Equal(t, "Welcome", doc.Rows[1].Values["en_us"])
	doc.Rows[1].Values["en_us"] = "Welcome back"
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	_, err = r.Import("", false, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.LocalesDir, "en-us.js"))
	require.NoError(t, err)
	assert.Equal(t, `export default {
  // shown on load
  greeting: 'Hello',
  Home: {
    title: 'Welcome back',
  },
};
`, string(data))
}

func TestImportNormalizesBreaks(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us")
	writeLocale(t, cfg, "en_us.json", "{\n  \"note\": \"one line\"\n}\n")

	r := newRunner(t, cfg)
	_, err := r.Export("", false)
	require.NoError(t, err)

	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	doc.Rows[0].Values["en_us"] = "first<br/>second"
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	_, err = r.Import("", false, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.LocalesDir, "en_us.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"note\": \"first\\nsecond\"\n}\n", string(data))
}

func TestImportPrune(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "json", "en_us")
	enPath := writeLocale(t, cfg, "en_us.json", "{\n  \"keep\": \"a\",\n  \"drop\": \"b\"\n}\n")

	r := newRunner(t, cfg)
	_, err := r.Export("", false)
	require.NoError(t, err)

	doc, err := sheet.Read(cfg.SheetPath, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	})
	require.NoError(t, err)
	doc.Rows = doc.Rows[:1] // the "drop" row is gone from the sheet
	require.NoError(t, sheet.Write(cfg.SheetPath, doc, sheet.Options{
		SheetName: cfg.SheetName, KeyColumn: cfg.KeyColumn, Delimiter: cfg.Delimiter,
	}))

	t.Run("without prune the key stays", func(t *testing.T) {
		summary, err := r.Import("", false, false)
		require.NoError(t, err)
		require.Len(t, summary.Report.Deletions, 1)
		assert.False(t, summary.Report.Deletions[0].Applied)

		data, readErr := os.ReadFile(enPath)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), `"drop"`)
	})

	t.Run("with prune the key goes", func(t *testing.T) {
		summary, err := r.Import("", true, false)
		require.NoError(t, err)
		require.Len(t, summary.Report.Deletions, 1)
		assert.True(t, summary.Report.Deletions[0].Applied)
		assert.Equal(t, 1, summary.Report.Stats["en_us"].Deleted)

		data, readErr := os.ReadFile(enPath)
		require.NoError(t, readErr)
		assert.Equal(t, "{\n  \"keep\": \"a\"\n}\n", string(data))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean setup passes", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t, "json", "en_us")
		writeLocale(t, cfg, "en_us.json", `{"greeting": "Hello"}`)

		r := newRunner(t, cfg)
		assert.NoError(t, r.Validate())
	})

	t.Run("broken file fails", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t, "json", "en_us")
		writeLocale(t, cfg, "en_us.json", `{"greeting": `)

		r := newRunner(t, cfg)
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "en_us.json")
	})

	t.Run("missing sheet is fine", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t, "json", "en_us")
		writeLocale(t, cfg, "en_us.json", `{"greeting": "Hello"}`)

		r := newRunner(t, cfg)
		assert.NoError(t, r.Validate())
	})
}
