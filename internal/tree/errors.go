// =============================================================================
// localesheet - Translation Tree Errors
// =============================================================================

package tree

import (
	"fmt"
	"strings"
)

// StructureError reports a value or key that the tree model cannot
// represent, such as a non-string leaf in strict mode or a key segment
// containing the path delimiter.
type StructureError struct {
	// Path locates the offending node. Empty for root-level problems.
	Path Path

	// Reason describes what was wrong.
	Reason string
}

func (e *StructureError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("structure error: %s", e.Reason)
	}
	return fmt.Sprintf("structure error at %q: %s", strings.Join(e.Path, "."), e.Reason)
}

// ConflictError reports a key path that is used both as a container and as
// a leaf, e.g. entries for both "a" and "a.b" in the same batch.
type ConflictError struct {
	// Path is the prefix on which the two uses disagree.
	Path Path
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("structure conflict at %q: path is used as both a value and a group", strings.Join(e.Path, "."))
}
