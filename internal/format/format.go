// =============================================================================
// localesheet - Format Adapters
// =============================================================================
//
// This package contains the two format adapters that translate between a
// language resource file on disk and the in-memory translation tree:
//
//   - "json" : a standard JSON object with string leaves (json.go)
//   - "js"   : an "export default { ... }" module export with string leaves
//              and retained line comments (jsmodule.go, scanner.go)
//
// Both adapters implement the same capability pair: Parse(text) -> tree and
// Serialize(tree) -> text. Parsing preserves key insertion order and, for
// the JS format, comments attached to keys, so that serialization can
// re-emit a file that matches the original apart from deliberately changed
// values.
//
// =============================================================================

package format

import (
	"fmt"
	"strings"

	"github.com/localesheet/localesheet/internal/tree"
)

// =============================================================================
// ADAPTER INTERFACE
// =============================================================================

// Adapter converts between a resource file's textual form and a translation
// tree. Implementations are stateless apart from their Options and are safe
// to reuse across files.
type Adapter interface {
	// Name returns the format identifier used in configuration ("json", "js").
	Name() string

	// Ext returns the file extension including the leading dot.
	Ext() string

	// Parse converts file content into a translation tree.
	// The filename is only used for error context.
	Parse(data []byte, filename string) (*tree.Node, error)

	// Serialize converts a translation tree back into file content.
	Serialize(root *tree.Node) ([]byte, error)
}

// Options carries the serializer and parser settings shared by all adapters.
// It is threaded explicitly from the configuration; there is no package
// level state.
type Options struct {
	// Indent is the number of spaces per nesting level on output.
	Indent int

	// StringifyScalars enables the permissive parse mode: JSON numbers,
	// booleans and nulls become string leaves instead of failing with a
	// StructureError.
	StringifyScalars bool
}

// =============================================================================
// REGISTRY
// =============================================================================

// New returns the adapter for the given format name.
func New(name string, opts Options) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return &jsonAdapter{opts: opts}, nil
	case "js":
		return &jsAdapter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: json, js)", name)
	}
}

// Names lists the supported format identifiers.
func Names() []string {
	return []string{"json", "js"}
}
