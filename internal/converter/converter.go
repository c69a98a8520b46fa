// =============================================================================
// localesheet - Converter Orchestration
// =============================================================================
//
// This module drives one invocation end to end. It owns the batch rules the
// rest of the code relies on:
//
//   - Everything is parsed and validated before anything is written. A
//     failure in any input aborts the whole run with every failure listed,
//     leaving all on-disk files untouched.
//   - Writes are per-file atomic (temp file + rename), so even a crash mid
//     run cannot leave a truncated language file or spreadsheet.
//   - One structured log event is emitted per file processed, with the
//     added/updated/unchanged counts for that file.
//
// Execution is single-threaded: a run handles a handful of small files and
// the all-or-nothing rule is simplest to hold without concurrent writers.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/localesheet/localesheet/internal/config"
	"github.com/localesheet/localesheet/internal/format"
	"github.com/localesheet/localesheet/internal/merge"
	"github.com/localesheet/localesheet/internal/sheet"
	"github.com/localesheet/localesheet/internal/tree"
	"github.com/localesheet/localesheet/pkg/fileutil"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes export, import and validate runs against one
// configuration.
type Runner struct {
	cfg     *config.Config
	adapter format.Adapter
	log     *logrus.Entry
}

// New builds a Runner from the configuration. Each run gets a run ID so the
// per-file log events of one invocation can be grouped.
func New(cfg *config.Config, log *logrus.Logger) (*Runner, error) {
	adapter, err := format.New(cfg.Format, format.Options{
		Indent:           cfg.Indent,
		StringifyScalars: cfg.StringifyScalars,
	})
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:     cfg,
		adapter: adapter,
		log:     log.WithField("run_id", uuid.NewString()),
	}, nil
}

// sheetOptions builds the spreadsheet options from the configuration.
func (r *Runner) sheetOptions() sheet.Options {
	return sheet.Options{
		SheetName:       r.cfg.SheetName,
		KeyColumn:       r.cfg.KeyColumn,
		Delimiter:       r.cfg.Delimiter,
		NormalizeBreaks: r.cfg.NormalizeBreaksEnabled(),
	}
}

// LocaleFilePath returns the on-disk path of one language's resource file.
// JS locale files follow the web convention of lowercase hyphenated codes
// (en_us -> en-us.js); JSON files keep the identifier as written.
func (r *Runner) LocaleFilePath(lang string) string {
	name := lang
	if r.adapter.Name() == "js" {
		name = strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
	}
	return filepath.Join(r.cfg.LocalesDir, name+r.adapter.Ext())
}

// =============================================================================
// LANGUAGE TABLE LOADING
// =============================================================================

// FileResult describes the outcome of loading or writing one language file.
type FileResult struct {
	Language string
	Path     string
	// Missing means the file did not exist and an empty tree was used.
	Missing bool
	// Keys is the number of leaf entries parsed or written.
	Keys int
}

// loadTable parses every configured language file into a Table.
//
// A missing file is tolerated (empty tree, reported in its FileResult) so a
// new language can be introduced through the spreadsheet. Parse failures do
// not stop the scan: every broken file is collected and reported at once,
// joined into a single error.
func (r *Runner) loadTable() (*merge.Table, []FileResult, error) {
	table := merge.NewTable(r.cfg.Languages)
	results := make([]FileResult, 0, len(r.cfg.Languages))
	var failures []error

	for _, lang := range r.cfg.Languages {
		path := r.LocaleFilePath(lang)
		res := FileResult{Language: lang, Path: path}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				res.Missing = true
				results = append(results, res)
				r.log.WithFields(logrus.Fields{
					"language": lang,
					"path":     path,
				}).Warn("language file missing, starting from an empty tree")
				continue
			}
			failures = append(failures, fmt.Errorf("%s: %w", path, err))
			continue
		}

		root, err := r.adapter.Parse(data, path)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		entries, err := tree.Flatten(root, r.cfg.Delimiter)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", path, err))
			continue
		}

		table.Trees[lang] = root
		res.Keys = len(entries)
		results = append(results, res)
	}

	if len(failures) > 0 {
		return nil, results, errors.Join(failures...)
	}
	return table, results, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportSummary is the outcome of one export run.
type ExportSummary struct {
	SheetPath string
	Rows      int
	Files     []FileResult
	DryRun    bool
}

// Export parses all language files, merges them into a spreadsheet document
// and writes it. With dryRun the document is built but nothing is written.
func (r *Runner) Export(outPath string, dryRun bool) (*ExportSummary, error) {
	if outPath == "" {
		outPath = r.cfg.SheetPath
	}

	table, files, err := r.loadTable()
	if err != nil {
		return nil, err
	}

	doc, err := merge.Export(table, r.cfg.Baseline, r.cfg.KeyColumn, r.cfg.Delimiter)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		r.log.WithFields(logrus.Fields{
			"language": f.Language,
			"path":     f.Path,
			"keys":     f.Keys,
			"missing":  f.Missing,
		}).Info("exported language file")
	}

	if !dryRun {
		if err := fileutil.EnsureDir(filepath.Dir(outPath)); err != nil {
			return nil, err
		}
		if err := sheet.Write(outPath, doc, r.sheetOptions()); err != nil {
			return nil, err
		}
	}

	r.log.WithFields(logrus.Fields{
		"sheet":   outPath,
		"rows":    len(doc.Rows),
		"dry_run": dryRun,
	}).Info("export complete")

	return &ExportSummary{
		SheetPath: outPath,
		Rows:      len(doc.Rows),
		Files:     files,
		DryRun:    dryRun,
	}, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportSummary is the outcome of one import run.
type ImportSummary struct {
	Report *merge.Report
	Files  []FileResult
	DryRun bool
}

// Import reads the spreadsheet, diffs it against the on-disk language files
// and writes back only what changed. The whole batch is serialized in
// memory before the first byte hits disk. With dryRun the report is
// produced but no file is written.
func (r *Runner) Import(sheetPath string, prune, dryRun bool) (*ImportSummary, error) {
	if sheetPath == "" {
		sheetPath = r.cfg.SheetPath
	}

	doc, err := sheet.Read(sheetPath, r.sheetOptions())
	if err != nil {
		return nil, err
	}

	table, loaded, err := r.loadTable()
	if err != nil {
		return nil, err
	}
	onDisk := make(map[string]bool, len(loaded))
	for _, f := range loaded {
		onDisk[f.Language] = !f.Missing
	}

	report, err := merge.Apply(table, doc, merge.ApplyOptions{
		Delimiter: r.cfg.Delimiter,
		Prune:     prune,
	})
	if err != nil {
		return nil, err
	}

	// Serialize every language first so a late failure cannot leave the
	// languages inconsistent with each other on disk.
	type output struct {
		lang string
		path string
		data []byte
		keys int
	}
	var outputs []output
	var failures []error
	for _, lang := range table.Languages {
		root := table.Trees[lang]
		data, err := r.adapter.Serialize(root)
		if err != nil {
			failures = append(failures, fmt.Errorf("language %s: %w", lang, err))
			continue
		}
		entries, err := tree.Flatten(root, r.cfg.Delimiter)
		if err != nil {
			failures = append(failures, fmt.Errorf("language %s: %w", lang, err))
			continue
		}
		outputs = append(outputs, output{
			lang: lang,
			path: r.LocaleFilePath(lang),
			data: data,
			keys: len(entries),
		})
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}

	files := make([]FileResult, 0, len(outputs))
	for _, out := range outputs {
		stats := report.Stats[out.lang]
		// An untouched file stays untouched: only languages with applied
		// changes, or languages that have no file yet, are written.
		changed := stats.Added+stats.Updated+stats.Deleted > 0
		if !dryRun && (changed || !onDisk[out.lang]) {
			if err := fileutil.EnsureDir(filepath.Dir(out.path)); err != nil {
				return nil, err
			}
			if err := fileutil.WriteFileAtomic(out.path, out.data, 0644); err != nil {
				return nil, err
			}
		}
		files = append(files, FileResult{Language: out.lang, Path: out.path, Keys: out.keys})
		r.log.WithFields(logrus.Fields{
			"language":  out.lang,
			"path":      out.path,
			"added":     stats.Added,
			"updated":   stats.Updated,
			"unchanged": stats.Unchanged,
			"deleted":   stats.Deleted,
			"dry_run":   dryRun,
		}).Info("imported language file")
	}

	return &ImportSummary{Report: report, Files: files, DryRun: dryRun}, nil
}

// =============================================================================
// VALIDATE
// =============================================================================

// Validate parses the spreadsheet (when present) and every language file,
// writing nothing. All failures are joined so the user can fix every
// problem in one pass.
func (r *Runner) Validate() error {
	var failures []error

	if fileutil.Exists(r.cfg.SheetPath) {
		if _, err := sheet.Read(r.cfg.SheetPath, r.sheetOptions()); err != nil {
			failures = append(failures, err)
		}
	} else {
		r.log.WithField("sheet", r.cfg.SheetPath).Debug("no spreadsheet present, skipping")
	}

	if _, _, err := r.loadTable(); err != nil {
		failures = append(failures, err)
	}

	return errors.Join(failures...)
}
