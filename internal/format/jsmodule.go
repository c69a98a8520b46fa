// =============================================================================
// localesheet - JS Module Adapter
// =============================================================================
//
// Parses and serializes language files of the form:
//
//   export default {
//     Home: {
//       // shown on load
//       title: 'Welcome',
//     },
//   };
//
// The supported subset is exactly one "export default" object literal whose
// values are string literals or nested object literals. Comments are
// retained as metadata: comments on the lines before a key attach to that
// key, and a comment trailing a value on the same line attaches to that
// value's key. Serialization re-emits retained comments as // lines above
// their key.
//
// Anything outside this subset (function calls, template literals, arrays,
// spread syntax, a second export) fails with a ParseError carrying the line
// and column of the offending token.
//
// =============================================================================

package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/localesheet/localesheet/internal/tree"
)

// jsAdapter implements Adapter for "export default" module exports.
type jsAdapter struct {
	opts Options
}

func (a *jsAdapter) Name() string { return "js" }
func (a *jsAdapter) Ext() string  { return ".js" }

// =============================================================================
// PARSING
// =============================================================================

// jsParser is a recursive-descent parser over the scanner's token stream.
// Only a one-token lookahead and the pending comment list are carried
// between productions.
type jsParser struct {
	sc  *scanner
	tok token

	// pending holds comment lines waiting to be attached to the next key.
	pending []string
}

// Parse tokenizes and parses a JS module file into a translation tree.
func (a *jsAdapter) Parse(data []byte, filename string) (*tree.Node, error) {
	p := &jsParser{sc: newScanner(data, filename)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	// Header comments before the export statement belong to the file, not
	// to the first key; drop them after skipping.
	for p.tok.kind == tokComment {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expectIdent("export"); err != nil {
		return nil, err
	}
	if err := p.expectIdent("default"); err != nil {
		return nil, err
	}
	if p.tok.kind != tokLBrace {
		return nil, p.errorf("expected '{' after \"export default\", got %s", p.tok.kind)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	root := tree.NewObject()
	if _, err := p.parseObjectBody(root); err != nil {
		return nil, err
	}

	// Optional trailing semicolon, then nothing but comments until EOF.
	if p.tok.kind == tokSemi {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for p.tok.kind == tokComment {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s after the export object", p.tok.kind)
	}
	return root, nil
}

// advance moves to the next token, including comment tokens.
func (p *jsParser) advance() error {
	tok, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// errorf builds a ParseError at the current token.
func (p *jsParser) errorf(format string, args ...interface{}) error {
	return &ParseError{File: p.sc.file, Line: p.tok.line, Col: p.tok.col,
		Msg: fmt.Sprintf(format, args...)}
}

// expectIdent consumes one identifier with the given name.
func (p *jsParser) expectIdent(name string) error {
	if p.tok.kind != tokIdent || p.tok.text != name {
		return p.errorf("expected %q, got %s", name, p.tok.kind)
	}
	return p.advance()
}

// parseObjectBody consumes object members up to and including the closing
// brace, which has already had its '{' consumed by the caller. It returns
// the line of the closing brace so trailing comments after a nested object
// can be attributed correctly.
func (p *jsParser) parseObjectBody(node *tree.Node) (closeLine int, err error) {
	// lastNode/lastLine track the most recent value so a same-line comment
	// can be attached to it instead of the next key.
	var lastNode *tree.Node
	lastLine := -1

	for {
		// Comment handling at member boundaries.
		for p.tok.kind == tokComment {
			if lastNode != nil && p.tok.line == lastLine {
				appendComment(lastNode, p.tok.text)
			} else {
				p.pending = append(p.pending, p.tok.text)
			}
			if err := p.advance(); err != nil {
				return 0, err
			}
		}

		if p.tok.kind == tokRBrace {
			line := p.tok.line
			return line, p.advance()
		}
		if p.tok.kind == tokEOF {
			return 0, p.errorf("unexpected end of file inside object literal")
		}

		// Key: identifier or string literal.
		if p.tok.kind != tokIdent && p.tok.kind != tokString {
			return 0, p.errorf("expected a key, got %s", p.tok.kind)
		}
		key := p.tok.text
		if err := p.advance(); err != nil {
			return 0, err
		}
		if p.tok.kind != tokColon {
			return 0, p.errorf("expected ':' after key %q, got %s", key, p.tok.kind)
		}
		if err := p.advance(); err != nil {
			return 0, err
		}

		// Value: string literal or nested object.
		switch p.tok.kind {
		case tokString:
			leaf := tree.NewLeaf(p.tok.text)
			p.attachPending(leaf)
			node.Set(key, leaf)
			lastNode, lastLine = leaf, p.tok.line
			if err := p.advance(); err != nil {
				return 0, err
			}
		case tokLBrace:
			child := tree.NewObject()
			p.attachPending(child)
			node.Set(key, child)
			if err := p.advance(); err != nil {
				return 0, err
			}
			line, err := p.parseObjectBody(child)
			if err != nil {
				return 0, err
			}
			lastNode, lastLine = child, line
		default:
			return 0, p.errorf("unsupported value for key %q: only string literals and nested objects are allowed", key)
		}

		// Comments trailing the value on its own line may sit before the
		// comma ("title: 'Welcome' /* shown on load */,").
		for p.tok.kind == tokComment && p.tok.line == lastLine {
			appendComment(lastNode, p.tok.text)
			if err := p.advance(); err != nil {
				return 0, err
			}
		}

		// Optional comma. A trailing comment after the comma is picked up
		// by the boundary loop above on the next pass.
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return 0, err
			}
		}
	}
}

// attachPending moves the accumulated leading comments onto the node.
func (p *jsParser) attachPending(n *tree.Node) {
	if len(p.pending) == 0 {
		return
	}
	appendComment(n, strings.Join(p.pending, "\n"))
	p.pending = nil
}

// appendComment adds a comment line to a node, preserving earlier lines.
func appendComment(n *tree.Node, text string) {
	if text == "" {
		return
	}
	if existing := n.Comment(); existing != "" {
		n.SetComment(existing + "\n" + text)
	} else {
		n.SetComment(text)
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize re-emits the tree as an "export default" module in key
// insertion order, with retained comments as // lines above their key.
func (a *jsAdapter) Serialize(root *tree.Node) ([]byte, error) {
	if root.IsLeaf() {
		return nil, &tree.StructureError{Reason: "root must be a container, not a leaf"}
	}
	var buf bytes.Buffer
	buf.WriteString("export default {\n")
	a.writeMembers(&buf, root, 1)
	buf.WriteString("};\n")
	return buf.Bytes(), nil
}

func (a *jsAdapter) writeMembers(buf *bytes.Buffer, node *tree.Node, depth int) {
	indent := strings.Repeat(" ", depth*a.opts.Indent)
	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		for _, line := range commentLines(child.Comment()) {
			buf.WriteString(indent)
			buf.WriteString("// ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteString(encodeJSKey(key))
		buf.WriteString(": ")
		if child.IsLeaf() {
			buf.WriteByte('\'')
			buf.WriteString(escapeJSString(child.Value()))
			buf.WriteString("',\n")
		} else {
			buf.WriteString("{\n")
			a.writeMembers(buf, child, depth+1)
			buf.WriteString(indent)
			buf.WriteString("},\n")
		}
	}
}

// commentLines splits a stored comment into its lines, skipping blanks.
func commentLines(comment string) []string {
	if comment == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// encodeJSKey emits a key bare when it is a valid identifier, quoted
// otherwise.
func encodeJSKey(key string) string {
	if isValidIdent(key) {
		return key
	}
	return "'" + escapeJSString(key) + "'"
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return true
}

// escapeJSString escapes a value for a single-quoted JS string literal.
func escapeJSString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
