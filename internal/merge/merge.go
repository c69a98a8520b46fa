// =============================================================================
// localesheet - Diff/Merge Engine
// =============================================================================
//
// This package compares language trees against a spreadsheet document and
// moves data between the two representations:
//
//   - Export: Language Table -> Document. Row order follows the baseline
//     language's key order; keys that exist only in other languages are
//     appended after it.
//
//   - Apply: Document -> Language Table, with update-in-place semantics.
//     Only keys whose spreadsheet value differs from the tree are rewritten;
//     everything else keeps its position, value and comment. New keys are
//     inserted next to their spreadsheet neighbors. Keys missing from the
//     spreadsheet are reported as deletion candidates and only removed when
//     explicitly requested.
//
// Applying the same document twice yields an empty report: the first pass
// brings the trees in line with the sheet, the second finds nothing to do.
//
// =============================================================================

package merge

import (
	"fmt"

	"github.com/localesheet/localesheet/internal/sheet"
	"github.com/localesheet/localesheet/internal/tree"
)

// =============================================================================
// LANGUAGE TABLE
// =============================================================================

// Table maps language identifiers to their translation trees. All trees
// conceptually share key paths, but divergence is permitted and preserved.
type Table struct {
	// Languages lists the table's languages in configured order.
	Languages []string

	// Trees holds one tree per language. A language with no file on disk
	// gets an empty tree.
	Trees map[string]*tree.Node
}

// NewTable returns a table with an empty tree per language.
func NewTable(languages []string) *Table {
	t := &Table{Languages: languages, Trees: make(map[string]*tree.Node)}
	for _, lang := range languages {
		t.Trees[lang] = tree.NewObject()
	}
	return t
}

// AddLanguage appends a language with an empty tree if it is not present.
func (t *Table) AddLanguage(lang string) {
	if _, ok := t.Trees[lang]; ok {
		return
	}
	t.Languages = append(t.Languages, lang)
	t.Trees[lang] = tree.NewObject()
}

// =============================================================================
// CHANGE REPORT
// =============================================================================

// Change records one applied update or addition.
type Change struct {
	Path     tree.Path
	Language string
	// Old is the previous value; empty for additions.
	Old string
	New string
	// Added distinguishes a new key from an updated one.
	Added bool
}

// Deletion records a key present in a language tree but absent from the
// spreadsheet. Deletions are candidates only; they are applied solely when
// ApplyOptions.Prune is set, and Applied says whether that happened.
type Deletion struct {
	Path     tree.Path
	Language string
	Value    string
	Applied  bool
}

// Stats counts the outcome per language.
type Stats struct {
	Added     int
	Updated   int
	Unchanged int
	Deleted   int
}

// Report is the outcome of one Apply run.
type Report struct {
	Changes   []Change
	Deletions []Deletion
	Stats     map[string]*Stats
}

// Empty reports whether Apply found nothing to change (pending deletion
// candidates do not count; they are reports, not changes).
func (r *Report) Empty() bool {
	if len(r.Changes) > 0 {
		return false
	}
	for _, d := range r.Deletions {
		if d.Applied {
			return false
		}
	}
	return true
}

func (r *Report) statsFor(lang string) *Stats {
	s, ok := r.Stats[lang]
	if !ok {
		s = &Stats{}
		r.Stats[lang] = s
	}
	return s
}

// =============================================================================
// EXPORT
// =============================================================================

// Export flattens every language tree into one spreadsheet document.
//
// The baseline language's key order defines row order. Key paths that exist
// only in other languages are appended after the baseline rows, in language
// order then discovery order, mirroring how the merged sheet has always
// been laid out.
func Export(t *Table, baseline, keyColumn, delim string) (*sheet.Document, error) {
	doc := &sheet.Document{KeyColumn: keyColumn, Languages: t.Languages}

	index := make(map[string]int) // joined path -> row index
	addRow := func(path tree.Path) int {
		key := path.String(delim)
		if i, ok := index[key]; ok {
			return i
		}
		doc.Rows = append(doc.Rows, sheet.Row{Path: path, Values: make(map[string]string)})
		index[key] = len(doc.Rows) - 1
		return len(doc.Rows) - 1
	}

	// Baseline first so its order wins.
	ordered := make([]string, 0, len(t.Languages))
	if _, ok := t.Trees[baseline]; ok {
		ordered = append(ordered, baseline)
	}
	for _, lang := range t.Languages {
		if lang != baseline {
			ordered = append(ordered, lang)
		}
	}

	for _, lang := range ordered {
		entries, err := tree.Flatten(t.Trees[lang], delim)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		for _, e := range entries {
			i := addRow(e.Path)
			doc.Rows[i].Values[lang] = e.Value
		}
	}

	return doc, nil
}

// =============================================================================
// APPLY
// =============================================================================

// ApplyOptions controls one Apply run.
type ApplyOptions struct {
	// Delimiter joins path segments for report keys and error context.
	Delimiter string

	// Prune removes keys absent from the spreadsheet instead of only
	// reporting them.
	Prune bool
}

// Apply merges a spreadsheet document into the table in place and returns
// the change report. Languages present in the document but not in the table
// are added with empty trees, so a column added by a translator becomes a
// new language file.
//
// On a type conflict (a spreadsheet path that would turn an existing group
// into a value or vice versa) Apply fails without reporting partial
// results; callers must not write trees after an error.
func Apply(t *Table, doc *sheet.Document, opts ApplyOptions) (*Report, error) {
	report := &Report{Stats: make(map[string]*Stats)}

	for _, lang := range doc.Languages {
		t.AddLanguage(lang)
	}

	for _, lang := range doc.Languages {
		root := t.Trees[lang]
		if err := applyLanguage(root, doc, lang, report); err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
	}

	if err := collectDeletions(t, doc, opts, report); err != nil {
		return nil, err
	}
	return report, nil
}

// applyLanguage walks the document rows once for a single language,
// updating values in place and inserting new keys next to their row
// neighbors.
func applyLanguage(root *tree.Node, doc *sheet.Document, lang string, report *Report) error {
	stats := report.statsFor(lang)

	for i, row := range doc.Rows {
		value, present := row.Values[lang]
		if !present {
			continue // Absent: this language has no entry, and that is preserved.
		}

		node, ok := root.GetPath(row.Path)
		if ok {
			if !node.IsLeaf() {
				return &tree.ConflictError{Path: row.Path}
			}
			if node.Value() == value {
				stats.Unchanged++
				continue
			}
			report.Changes = append(report.Changes, Change{
				Path: row.Path, Language: lang, Old: node.Value(), New: value,
			})
			node.SetValue(value) // comment stays attached
			stats.Updated++
			continue
		}

		parent, err := tree.EnsureContainers(root, row.Path.Parent())
		if err != nil {
			return err
		}
		leaf := tree.NewLeaf(value)
		if pred, ok := predecessorKey(root, doc, i, row.Path); ok {
			parent.InsertAfter(pred, row.Path.Leaf(), leaf)
		} else {
			parent.Set(row.Path.Leaf(), leaf)
		}
		report.Changes = append(report.Changes, Change{
			Path: row.Path, Language: lang, New: value, Added: true,
		})
		stats.Added++
	}
	return nil
}

// predecessorKey finds the insertion anchor for a new key: the nearest
// earlier row that shares the same parent path and already exists in this
// language's tree. Without such a neighbor the key is appended.
func predecessorKey(root *tree.Node, doc *sheet.Document, rowIndex int, path tree.Path) (string, bool) {
	parent := path.Parent()
	for j := rowIndex - 1; j >= 0; j-- {
		prev := doc.Rows[j].Path
		if !prev.Parent().Equal(parent) {
			continue
		}
		if node, ok := root.GetPath(prev); ok && node.IsLeaf() {
			return prev.Leaf(), true
		}
	}
	return "", false
}

// collectDeletions reports, and optionally applies, keys that exist in a
// language tree but on no spreadsheet row.
func collectDeletions(t *Table, doc *sheet.Document, opts ApplyOptions, report *Report) error {
	inSheet := make(map[string]bool, len(doc.Rows))
	for _, row := range doc.Rows {
		inSheet[row.Path.String(opts.Delimiter)] = true
	}

	for _, lang := range t.Languages {
		root := t.Trees[lang]
		entries, err := tree.Flatten(root, opts.Delimiter)
		if err != nil {
			return fmt.Errorf("language %s: %w", lang, err)
		}
		stats := report.statsFor(lang)
		for _, e := range entries {
			if inSheet[e.Path.String(opts.Delimiter)] {
				continue
			}
			del := Deletion{Path: e.Path, Language: lang, Value: e.Value}
			if opts.Prune {
				removeLeaf(root, e.Path)
				del.Applied = true
				stats.Deleted++
			}
			report.Deletions = append(report.Deletions, del)
		}
	}
	return nil
}

// removeLeaf deletes the leaf at path and prunes any containers left empty.
func removeLeaf(root *tree.Node, path tree.Path) {
	if len(path) == 0 {
		return
	}
	parent, ok := root.GetPath(path.Parent())
	if !ok || parent.IsLeaf() {
		return
	}
	parent.Delete(path.Leaf())
	if parent.Len() == 0 && len(path) > 1 {
		removeLeaf(root, path.Parent())
	}
}
