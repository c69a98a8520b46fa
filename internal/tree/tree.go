// =============================================================================
// localesheet - Translation Tree
// =============================================================================
//
// This package holds the in-memory model shared by every other module: an
// ordered, nested key/value tree mirroring one language resource file.
//
// A Node is either a container (ordered set of named children) or a leaf
// (one translation string, optionally with an attached source comment).
// Containers remember key insertion order so that a file can be re-emitted
// with its original key ordering after a round trip through a spreadsheet.
//
// The package also provides the two halves of the converter core:
//   - Flatten: tree -> ordered (key path, value) entries
//   - Build:   ordered (key path, value) entries -> tree
//
// =============================================================================

package tree

import (
	"fmt"
	"strings"
)

// =============================================================================
// KEY PATHS
// =============================================================================

// Path identifies a leaf's position in the nested tree as an ordered list
// of key segments, e.g. ["Home", "title"].
type Path []string

// ParsePath splits a joined key path on the given delimiter.
// Empty input yields an empty path.
func ParsePath(s, delim string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, delim))
}

// String joins the path segments with the given delimiter.
func (p Path) String(delim string) string {
	return strings.Join(p, delim)
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the path without its final segment.
// The parent of a single-segment path is the empty (root) path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1]
}

// Leaf returns the final segment, or "" for the root path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with one more segment appended.
func (p Path) Child(segment string) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, segment)
}

// =============================================================================
// NODES
// =============================================================================

// Node is one position in a translation tree: either a container holding
// named children in insertion order, or a leaf holding a translation string.
type Node struct {
	// leaf state
	leaf    bool
	value   string
	comment string

	// container state
	keys     []string
	children map[string]*Node
}

// NewObject returns an empty container node.
func NewObject() *Node {
	return &Node{children: make(map[string]*Node)}
}

// NewLeaf returns a leaf node holding the given translation string.
func NewLeaf(value string) *Node {
	return &Node{leaf: true, value: value}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool { return n.leaf }

// Value returns the translation string of a leaf node.
// Containers return "".
func (n *Node) Value() string { return n.value }

// SetValue replaces the translation string of a leaf node.
func (n *Node) SetValue(v string) { n.value = v }

// Comment returns the source comment attached to the node, if any.
// Multi-line comments are joined with "\n".
func (n *Node) Comment() string { return n.comment }

// SetComment attaches a source comment to the node.
func (n *Node) SetComment(c string) { n.comment = c }

// Len returns the number of direct children of a container.
func (n *Node) Len() int { return len(n.keys) }

// Keys returns the child keys of a container in insertion order.
// The returned slice is a copy and safe to modify.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Get returns the child with the given key, if present.
func (n *Node) Get(key string) (*Node, bool) {
	if n.children == nil {
		return nil, false
	}
	child, ok := n.children[key]
	return child, ok
}

// Set adds or replaces the child with the given key.
// A new key is appended at the end; an existing key keeps its position.
func (n *Node) Set(key string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// InsertAfter adds the child with the given key immediately after the
// predecessor key. If the predecessor is not present the child is appended.
// An existing key keeps its position and only its node is replaced.
func (n *Node) InsertAfter(pred, key string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, ok := n.children[key]; ok {
		n.children[key] = child
		return
	}
	pos := -1
	for i, k := range n.keys {
		if k == pred {
			pos = i
			break
		}
	}
	if pos < 0 {
		n.keys = append(n.keys, key)
	} else {
		n.keys = append(n.keys, "")
		copy(n.keys[pos+2:], n.keys[pos+1:])
		n.keys[pos+1] = key
	}
	n.children[key] = child
}

// Delete removes the child with the given key, if present.
func (n *Node) Delete(key string) {
	if n.children == nil {
		return
	}
	if _, ok := n.children[key]; !ok {
		return
	}
	delete(n.children, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// GetPath walks the tree along the given path and returns the node there.
func (n *Node) GetPath(p Path) (*Node, bool) {
	cur := n
	for _, seg := range p {
		if cur.IsLeaf() {
			return nil, false
		}
		next, ok := cur.Get(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// =============================================================================
// FLATTEN
// =============================================================================

// Entry is one flattened leaf: its key path, translation string, and any
// comment carried over from the source file.
type Entry struct {
	Path    Path
	Value   string
	Comment string
}

// Flatten walks the tree depth-first in key insertion order and returns one
// Entry per leaf. The delimiter is only used to reject key segments that
// contain it: such a segment would re-split differently on import and
// corrupt the round trip, so it fails with a StructureError naming the path.
func Flatten(root *Node, delim string) ([]Entry, error) {
	if root.IsLeaf() {
		return nil, &StructureError{Reason: "root must be a container, not a leaf"}
	}
	var entries []Entry
	err := flattenInto(root, Path{}, delim, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func flattenInto(n *Node, prefix Path, delim string, out *[]Entry) error {
	for _, key := range n.keys {
		if delim != "" && strings.Contains(key, delim) {
			return &StructureError{
				Path:   prefix.Child(key),
				Reason: fmt.Sprintf("key contains the path delimiter %q", delim),
			}
		}
		child := n.children[key]
		path := prefix.Child(key)
		if child.IsLeaf() {
			*out = append(*out, Entry{Path: path, Value: child.value, Comment: child.comment})
			continue
		}
		if err := flattenInto(child, path, delim, out); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// BUILD
// =============================================================================

// Build reconstructs a tree from ordered flat entries. It is the inverse of
// Flatten: Build(Flatten(t)) is structurally identical to t, including key
// order. Intermediate containers are created lazily the first time a path
// prefix is seen. If two entries disagree on whether a prefix is a container
// or a leaf, Build fails with a ConflictError naming the offending path.
func Build(entries []Entry) (*Node, error) {
	root := NewObject()
	for _, e := range entries {
		if len(e.Path) == 0 {
			return nil, &StructureError{Reason: "entry has an empty key path"}
		}
		parent, err := EnsureContainers(root, e.Path.Parent())
		if err != nil {
			return nil, err
		}
		key := e.Path.Leaf()
		if existing, ok := parent.Get(key); ok && !existing.IsLeaf() {
			return nil, &ConflictError{Path: e.Path}
		}
		leaf := NewLeaf(e.Value)
		leaf.comment = e.Comment
		parent.Set(key, leaf)
	}
	return root, nil
}

// EnsureContainers walks the path from root, creating container nodes as
// needed, and returns the container at the end of the path. A leaf found
// anywhere along the way is a type conflict.
func EnsureContainers(root *Node, p Path) (*Node, error) {
	cur := root
	for i, seg := range p {
		next, ok := cur.Get(seg)
		if !ok {
			next = NewObject()
			cur.Set(seg, next)
		} else if next.IsLeaf() {
			return nil, &ConflictError{Path: p[:i+1]}
		}
		cur = next
	}
	return cur, nil
}
