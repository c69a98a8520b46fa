// =============================================================================
// localesheet - Spreadsheet Document
// =============================================================================
//
// This package owns the spreadsheet side of the converter: an in-memory
// Document model plus XLSX reading and writing via excelize.
//
// SHEET LAYOUT:
//   | key          | en_us    | zh_cn  | de_de          |
//   | greeting     | Hello    | 你好    | Hallo          |
//   | Home.title   | Welcome  | 欢迎    |                |
//
// The first row is a header: the key-path column followed by one column per
// language. Each following row holds one key path and its value in each
// language. An empty cell means the language has no entry for that key
// (Absent), which is different from an empty translation; languages are
// allowed to diverge and the gap is preserved, never filled.
//
// =============================================================================

package sheet

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/localesheet/localesheet/internal/tree"
	"github.com/localesheet/localesheet/pkg/fileutil"
)

// =============================================================================
// DOCUMENT MODEL
// =============================================================================

// Row is one key path with its value per language. Map presence encodes the
// {value, Absent} variant: a language missing from Values has no entry for
// this key at all.
type Row struct {
	Path   tree.Path
	Values map[string]string
}

// Document is an ordered spreadsheet document. Row order is significant: it
// reflects original key insertion order on export and drives reconstruction
// order on import.
type Document struct {
	// KeyColumn is the header of the key-path column.
	KeyColumn string

	// Languages lists the language columns in sheet order.
	Languages []string

	// Rows holds one entry per unique key path, in sheet order.
	Rows []Row
}

// CollisionError reports a key path that appears on more than one row.
type CollisionError struct {
	Path tree.Path
	// RowNumber is the 1-based sheet row of the duplicate.
	RowNumber int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate key path %q on row %d", strings.Join(e.Path, "."), e.RowNumber)
}

// Options controls how sheets are read and written.
type Options struct {
	// SheetName is the worksheet to read or create.
	SheetName string

	// KeyColumn is the expected header of the key-path column.
	KeyColumn string

	// Delimiter joins and splits key path segments in the key column.
	Delimiter string

	// NormalizeBreaks rewrites "<br/>" in cell values to a newline when
	// reading. Translators pasting from HTML sources tend to carry the tag
	// along.
	NormalizeBreaks bool
}

// =============================================================================
// READING
// =============================================================================

// Read loads a spreadsheet document from an XLSX file.
//
// The worksheet is opts.SheetName if it exists, otherwise the file's first
// sheet. Language columns come from the header row; columns beyond the
// configured languages are kept, so a translator can introduce a language by
// adding a column. Rows with an empty key cell are skipped; a duplicate key
// path fails with a CollisionError.
func Read(path string, opts Options) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheetName := opts.SheetName
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet %s: sheet %q is empty", path, sheetName)
	}

	header := rows[0]
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), opts.KeyColumn) {
		return nil, fmt.Errorf("spreadsheet %s: first header cell must be %q", path, opts.KeyColumn)
	}
	var languages []string
	for _, cell := range header[1:] {
		lang := strings.TrimSpace(cell)
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("spreadsheet %s: header has no language columns", path)
	}

	doc := &Document{KeyColumn: opts.KeyColumn, Languages: languages}
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		rowNumber := i + 2 // 1-based, after the header
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		path := tree.ParsePath(key, opts.Delimiter)
		for _, seg := range path {
			if seg == "" {
				return nil, fmt.Errorf("row %d: key path %q has an empty segment", rowNumber, key)
			}
		}
		if seen[key] {
			return nil, &CollisionError{Path: path, RowNumber: rowNumber}
		}
		seen[key] = true

		values := make(map[string]string)
		for j, lang := range languages {
			col := j + 1
			if col >= len(row) {
				continue
			}
			cell := row[col]
			if cell == "" {
				continue // Absent
			}
			if opts.NormalizeBreaks {
				cell = strings.ReplaceAll(cell, "<br/>", "\n")
			}
			values[lang] = cell
		}
		doc.Rows = append(doc.Rows, Row{Path: path, Values: values})
	}

	return doc, nil
}

// =============================================================================
// WRITING
// =============================================================================

// Write saves the document as an XLSX file. The file is produced in memory
// and written atomically so a failure never leaves a truncated spreadsheet.
func Write(path string, doc *Document, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	} else if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheetName, err)
	}

	// Header row.
	if err := setCell(f, sheetName, 1, 1, doc.KeyColumn); err != nil {
		return err
	}
	for j, lang := range doc.Languages {
		if err := setCell(f, sheetName, j+2, 1, lang); err != nil {
			return err
		}
	}

	// Data rows, one per key path, in document order.
	for i, row := range doc.Rows {
		rowNumber := i + 2
		if err := setCell(f, sheetName, 1, rowNumber, row.Path.String(opts.Delimiter)); err != nil {
			return err
		}
		for j, lang := range doc.Languages {
			value, ok := row.Values[lang]
			if !ok {
				continue // Absent stays an empty cell
			}
			if err := setCell(f, sheetName, j+2, rowNumber, value); err != nil {
				return err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode spreadsheet: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), os.FileMode(0644))
}

// setCell writes one cell by 1-based column and row.
func setCell(f *excelize.File, sheetName string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates (%d, %d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
