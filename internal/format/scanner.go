// =============================================================================
// localesheet - JS Module Scanner
// =============================================================================
//
// A small single-pass tokenizer for the supported JS module-export subset.
// It produces identifiers, string literals, punctuation and comments, each
// stamped with its 1-based line and column, so the parser can report exact
// positions and attach comments to the right keys.
//
// =============================================================================

package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind enumerates the token types of the JS subset.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokLBrace
	tokRBrace
	tokColon
	tokComma
	tokSemi
	tokComment
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokSemi:
		return "';'"
	case tokComment:
		return "comment"
	default:
		return "unknown token"
	}
}

// token is one lexical unit with its source position.
type token struct {
	kind tokenKind
	// text is the token's content: the identifier name, the decoded string
	// value, or the comment text without its // or /* */ markers.
	text string
	line int
	col  int
}

// scanner walks the input byte by byte, tracking line and column.
type scanner struct {
	src  []byte
	file string
	pos  int
	line int
	col  int
}

func newScanner(src []byte, file string) *scanner {
	return &scanner{src: src, file: file, line: 1, col: 1}
}

// errorf builds a ParseError at the given position.
func (s *scanner) errorf(line, col int, format string, args ...interface{}) error {
	return &ParseError{File: s.file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() byte {
	b := s.src[s.pos]
	s.pos++
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b
}

// next returns the next token, including comments. Whitespace is skipped.
func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) {
		b := s.peek()
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			s.advance()
			continue
		}
		break
	}
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: s.line, col: s.col}, nil
	}

	line, col := s.line, s.col
	b := s.peek()
	switch {
	case b == '{':
		s.advance()
		return token{kind: tokLBrace, line: line, col: col}, nil
	case b == '}':
		s.advance()
		return token{kind: tokRBrace, line: line, col: col}, nil
	case b == ':':
		s.advance()
		return token{kind: tokColon, line: line, col: col}, nil
	case b == ',':
		s.advance()
		return token{kind: tokComma, line: line, col: col}, nil
	case b == ';':
		s.advance()
		return token{kind: tokSemi, line: line, col: col}, nil
	case b == '\'' || b == '"':
		return s.scanString(line, col)
	case b == '/':
		return s.scanComment(line, col)
	default:
		r, _ := utf8.DecodeRune(s.src[s.pos:])
		if isIdentStart(r) {
			return s.scanIdent(line, col)
		}
		return token{}, s.errorf(line, col, "unexpected character %q", r)
	}
}

// scanString decodes a single- or double-quoted string literal, handling
// the escape sequences the serializer emits plus common JS ones.
func (s *scanner) scanString(line, col int) (token, error) {
	quote := s.advance()
	var sb strings.Builder
	for {
		if s.pos >= len(s.src) {
			return token{}, s.errorf(line, col, "unterminated string literal")
		}
		b := s.advance()
		if b == quote {
			return token{kind: tokString, text: sb.String(), line: line, col: col}, nil
		}
		if b == '\n' {
			return token{}, s.errorf(line, col, "unterminated string literal")
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		if s.pos >= len(s.src) {
			return token{}, s.errorf(line, col, "unterminated string literal")
		}
		esc := s.advance()
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"', '`', '/':
			sb.WriteByte(esc)
		case 'u':
			r, err := s.scanUnicodeEscape(line, col)
			if err != nil {
				return token{}, err
			}
			sb.WriteRune(r)
		default:
			return token{}, s.errorf(s.line, s.col-1, "unsupported escape sequence \\%c", esc)
		}
	}
}

// scanUnicodeEscape reads the four hex digits of a \uXXXX escape.
func (s *scanner) scanUnicodeEscape(line, col int) (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		if s.pos >= len(s.src) {
			return 0, s.errorf(line, col, "unterminated unicode escape")
		}
		b := s.advance()
		var d rune
		switch {
		case b >= '0' && b <= '9':
			d = rune(b - '0')
		case b >= 'a' && b <= 'f':
			d = rune(b-'a') + 10
		case b >= 'A' && b <= 'F':
			d = rune(b-'A') + 10
		default:
			return 0, s.errorf(s.line, s.col-1, "invalid unicode escape digit %q", rune(b))
		}
		r = r<<4 | d
	}
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, nil
}

// scanComment reads a // line comment or a /* */ block comment and returns
// its text without the markers, trimmed of surrounding whitespace.
func (s *scanner) scanComment(line, col int) (token, error) {
	s.advance() // leading '/'
	if s.pos >= len(s.src) {
		return token{}, s.errorf(line, col, "unexpected character '/'")
	}
	switch s.peek() {
	case '/':
		s.advance()
		start := s.pos
		for s.pos < len(s.src) && s.peek() != '\n' {
			s.advance()
		}
		text := strings.TrimSpace(string(s.src[start:s.pos]))
		return token{kind: tokComment, text: text, line: line, col: col}, nil
	case '*':
		s.advance()
		start := s.pos
		for {
			if s.pos+1 >= len(s.src) {
				return token{}, s.errorf(line, col, "unterminated block comment")
			}
			if s.peek() == '*' && s.src[s.pos+1] == '/' {
				text := strings.TrimSpace(string(s.src[start:s.pos]))
				s.advance()
				s.advance()
				return token{kind: tokComment, text: text, line: line, col: col}, nil
			}
			s.advance()
		}
	default:
		return token{}, s.errorf(line, col, "unexpected character '/'")
	}
}

// scanIdent reads an identifier (letters, digits, '_', '$').
func (s *scanner) scanIdent(line, col int) (token, error) {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if !isIdentPart(r) {
			break
		}
		for i := 0; i < size; i++ {
			s.advance()
		}
	}
	return token{kind: tokIdent, text: string(s.src[start:s.pos]), line: line, col: col}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
