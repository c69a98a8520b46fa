// =============================================================================
// localesheet - JSON Adapter
// =============================================================================
//
// Parses and serializes standard JSON language files. encoding/json's map
// decoding would lose key order, so parsing walks the token stream with
// json.Decoder instead and records keys in document order. Serialization
// re-emits the tree in insertion order with configurable indentation.
//
// Supported values are strings and nested objects. Numbers, booleans and
// nulls fail with a StructureError unless the permissive StringifyScalars
// mode is enabled, in which case numbers and booleans keep their JSON text
// and nulls become empty strings. Arrays are always rejected.
//
// =============================================================================

package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/localesheet/localesheet/internal/tree"
)

// jsonAdapter implements Adapter for plain JSON language files.
type jsonAdapter struct {
	opts Options
}

func (a *jsonAdapter) Name() string { return "json" }
func (a *jsonAdapter) Ext() string  { return ".json" }

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes a JSON object while preserving key order.
func (a *jsonAdapter) Parse(data []byte, filename string) (*tree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, jsonParseError(err, data, filename)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		line, col := lineCol(data, int(dec.InputOffset()))
		return nil, &ParseError{File: filename, Line: line, Col: col,
			Msg: fmt.Sprintf("expected a top-level object, got %v", tok)}
	}

	root := tree.NewObject()
	if err := a.parseObject(dec, root, tree.Path{}, data, filename); err != nil {
		return nil, err
	}

	// Anything after the closing brace is garbage.
	if _, err := dec.Token(); err != io.EOF {
		line, col := lineCol(data, int(dec.InputOffset()))
		return nil, &ParseError{File: filename, Line: line, Col: col,
			Msg: "unexpected content after top-level object"}
	}
	return root, nil
}

// parseObject consumes the members of an already-opened object, including
// its closing brace, and fills the container node in document order.
func (a *jsonAdapter) parseObject(dec *json.Decoder, node *tree.Node, path tree.Path, data []byte, filename string) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return jsonParseError(err, data, filename)
		}
		key, ok := keyTok.(string)
		if !ok {
			line, col := lineCol(data, int(dec.InputOffset()))
			return &ParseError{File: filename, Line: line, Col: col,
				Msg: fmt.Sprintf("expected object key, got %v", keyTok)}
		}

		valTok, err := dec.Token()
		if err != nil {
			return jsonParseError(err, data, filename)
		}

		childPath := path.Child(key)
		switch v := valTok.(type) {
		case json.Delim:
			if v != '{' {
				return &tree.StructureError{Path: childPath,
					Reason: "arrays are not supported in language files"}
			}
			child := tree.NewObject()
			if err := a.parseObject(dec, child, childPath, data, filename); err != nil {
				return err
			}
			node.Set(key, child)
		case string:
			node.Set(key, tree.NewLeaf(v))
		case json.Number:
			if !a.opts.StringifyScalars {
				return &tree.StructureError{Path: childPath,
					Reason: fmt.Sprintf("value %s is a number, not a string (enable stringify_scalars to coerce)", v)}
			}
			node.Set(key, tree.NewLeaf(v.String()))
		case bool:
			if !a.opts.StringifyScalars {
				return &tree.StructureError{Path: childPath,
					Reason: fmt.Sprintf("value %t is a boolean, not a string (enable stringify_scalars to coerce)", v)}
			}
			node.Set(key, tree.NewLeaf(fmt.Sprintf("%t", v)))
		case nil:
			if !a.opts.StringifyScalars {
				return &tree.StructureError{Path: childPath,
					Reason: "value is null, not a string (enable stringify_scalars to coerce)"}
			}
			node.Set(key, tree.NewLeaf(""))
		default:
			line, col := lineCol(data, int(dec.InputOffset()))
			return &ParseError{File: filename, Line: line, Col: col,
				Msg: fmt.Sprintf("unsupported value of type %T", valTok)}
		}
	}

	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return jsonParseError(err, data, filename)
	}
	return nil
}

// jsonParseError converts an encoding/json error into a ParseError with
// line and column context where the standard library provides an offset.
func jsonParseError(err error, data []byte, filename string) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		line, col := lineCol(data, int(syn.Offset))
		return &ParseError{File: filename, Line: line, Col: col, Msg: syn.Error()}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		line, col := lineCol(data, len(data))
		return &ParseError{File: filename, Line: line, Col: col, Msg: "unexpected end of file"}
	}
	return &ParseError{File: filename, Msg: err.Error()}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize re-emits the tree as a JSON object in key insertion order.
// Comments carried on nodes are dropped: JSON has no comment syntax.
func (a *jsonAdapter) Serialize(root *tree.Node) ([]byte, error) {
	if root.IsLeaf() {
		return nil, &tree.StructureError{Reason: "root must be a container, not a leaf"}
	}
	var buf bytes.Buffer
	a.writeObject(&buf, root, 0)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (a *jsonAdapter) writeObject(buf *bytes.Buffer, node *tree.Node, depth int) {
	keys := node.Keys()
	if len(keys) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	inner := strings.Repeat(" ", (depth+1)*a.opts.Indent)
	for i, key := range keys {
		child, _ := node.Get(key)
		buf.WriteString(inner)
		buf.Write(encodeJSONString(key))
		buf.WriteString(": ")
		if child.IsLeaf() {
			buf.Write(encodeJSONString(child.Value()))
		} else {
			a.writeObject(buf, child, depth+1)
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat(" ", depth*a.opts.Indent))
	buf.WriteByte('}')
}

// encodeJSONString marshals a string with encoding/json so that escaping
// matches what the parser accepts. HTML escaping is disabled: translation
// strings routinely carry markup and must stay readable in review diffs.
func encodeJSONString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // cannot fail for a string
	return bytes.TrimRight(buf.Bytes(), "\n")
}
