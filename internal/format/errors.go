// =============================================================================
// localesheet - Format Adapter Errors
// =============================================================================

package format

import "fmt"

// ParseError reports malformed input: invalid JSON, or JS that falls outside
// the supported module-export subset. Line and column are 1-based; zero
// means the position is unknown.
type ParseError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Col > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
}

// lineCol converts a byte offset into 1-based line and column numbers.
// Columns count bytes, which is exact for the ASCII syntax characters that
// trigger parse errors.
func lineCol(data []byte, offset int) (line, col int) {
	if offset > len(data) {
		offset = len(data)
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
