package mira

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// requestScanner walks module source text and collects the specifiers of
// static imports, re-exports, and dynamic `import("...")` calls with literal
// arguments. It understands strings and comments well enough not to be
// fooled by them but is deliberately not a parser; full syntax checking
// belongs to the engine's parser proper.
type requestScanner struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newRequestScanner(input string) *requestScanner {
	s := &requestScanner{input: input, line: 1, column: 0}
	s.readRune()
	return s
}

func (s *requestScanner) readRune() {
	if s.offset >= len(s.input) {
		s.width = 0
		s.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(s.input[s.offset:])
	s.width = w
	s.offset += w

	if r == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}

	s.ch = r
}

func (s *requestScanner) pos() Position {
	return Position{Line: s.line, Column: s.column}
}

// scanModuleRequests returns the requested specifiers of src in source
// order, deduplicated.
func scanModuleRequests(src *Source) ([]string, error) {
	s := newRequestScanner(src.Text())

	var requests []string
	seen := make(map[string]struct{})
	record := func(spec string) {
		if _, ok := seen[spec]; ok {
			return
		}
		seen[spec] = struct{}{}
		requests = append(requests, spec)
	}

	for s.ch != 0 {
		switch {
		case s.ch == '/' :
			if err := s.skipCommentOrSlash(src); err != nil {
				return nil, err
			}
		case s.ch == '"' || s.ch == '\'' || s.ch == '`':
			if _, err := s.scanString(src); err != nil {
				return nil, err
			}
		case isIdentStart(s.ch):
			word := s.scanIdent()
			switch word {
			case "import":
				spec, ok, err := s.scanImportTail(src)
				if err != nil {
					return nil, err
				}
				if ok {
					record(spec)
				}
			case "export":
				spec, ok, err := s.scanExportTail(src)
				if err != nil {
					return nil, err
				}
				if ok {
					record(spec)
				}
			}
		default:
			s.readRune()
		}
	}
	return requests, nil
}

// scanImportTail handles whatever follows an `import` keyword: a dynamic
// call, `import.meta`, a bare side-effect import, or an import clause
// followed by `from "..."`.
func (s *requestScanner) scanImportTail(src *Source) (string, bool, error) {
	if err := s.skipTrivia(src); err != nil {
		return "", false, err
	}
	switch {
	case s.ch == '(':
		s.readRune()
		if err := s.skipTrivia(src); err != nil {
			return "", false, err
		}
		if s.ch == '"' || s.ch == '\'' {
			spec, err := s.scanString(src)
			return spec, err == nil, err
		}
		// Non-literal dynamic import; nothing to record statically.
		return "", false, nil
	case s.ch == '.':
		// import.meta
		return "", false, nil
	case s.ch == '"' || s.ch == '\'':
		spec, err := s.scanString(src)
		return spec, err == nil, err
	default:
		return s.scanUntilFromClause(src, true)
	}
}

// scanExportTail records a specifier only for re-export forms
// (`export * from "..."`, `export { ... } from "..."`).
func (s *requestScanner) scanExportTail(src *Source) (string, bool, error) {
	if err := s.skipTrivia(src); err != nil {
		return "", false, err
	}
	if s.ch != '{' && s.ch != '*' {
		return "", false, nil
	}
	return s.scanUntilFromClause(src, false)
}

// scanUntilFromClause scans forward to the `from "..."` clause of the
// current statement, tracking brace depth and stopping at `;`. When
// stringTerminates is set, a bare string literal also ends the clause
// (covers `import defaultExport from` being absent in `import "..."`
// recovery paths).
func (s *requestScanner) scanUntilFromClause(src *Source, stringTerminates bool) (string, bool, error) {
	depth := 0
	for s.ch != 0 {
		switch {
		case s.ch == ';':
			return "", false, nil
		case s.ch == '{':
			depth++
			s.readRune()
		case s.ch == '}':
			depth--
			s.readRune()
		case s.ch == '/':
			if err := s.skipCommentOrSlash(src); err != nil {
				return "", false, err
			}
		case s.ch == '"' || s.ch == '\'':
			spec, err := s.scanString(src)
			if err != nil {
				return "", false, err
			}
			if stringTerminates && depth == 0 {
				return spec, true, nil
			}
		case isIdentStart(s.ch):
			word := s.scanIdent()
			if word == "from" && depth == 0 {
				if err := s.skipTrivia(src); err != nil {
					return "", false, err
				}
				if s.ch != '"' && s.ch != '\'' {
					return "", false, nil
				}
				spec, err := s.scanString(src)
				return spec, err == nil, err
			}
		default:
			s.readRune()
		}
	}
	return "", false, nil
}

func (s *requestScanner) scanIdent() string {
	var b strings.Builder
	for isIdentPart(s.ch) {
		b.WriteRune(s.ch)
		s.readRune()
	}
	return b.String()
}

// scanString consumes the string literal starting at the current quote rune
// and returns its raw contents without interpreting escapes beyond the
// closing quote.
func (s *requestScanner) scanString(src *Source) (string, error) {
	quote := s.ch
	start := s.pos()
	s.readRune()

	var b strings.Builder
	for {
		switch s.ch {
		case 0:
			return "", &ParseError{Path: src.Path(), Pos: start, Source: src.Text(), Msg: "unterminated string literal"}
		case '\n':
			if quote != '`' {
				return "", &ParseError{Path: src.Path(), Pos: start, Source: src.Text(), Msg: "unterminated string literal"}
			}
			b.WriteRune(s.ch)
			s.readRune()
		case '\\':
			s.readRune()
			if s.ch == 0 {
				return "", &ParseError{Path: src.Path(), Pos: start, Source: src.Text(), Msg: "unterminated string literal"}
			}
			b.WriteRune(s.ch)
			s.readRune()
		case quote:
			s.readRune()
			return b.String(), nil
		default:
			b.WriteRune(s.ch)
			s.readRune()
		}
	}
}

// skipCommentOrSlash consumes a `//` or `/* */` comment, or a single slash
// (division, regex; close enough for request scanning).
func (s *requestScanner) skipCommentOrSlash(src *Source) error {
	start := s.pos()
	s.readRune()
	switch s.ch {
	case '/':
		for s.ch != 0 && s.ch != '\n' {
			s.readRune()
		}
	case '*':
		s.readRune()
		for {
			if s.ch == 0 {
				return &ParseError{Path: src.Path(), Pos: start, Source: src.Text(), Msg: "unterminated block comment"}
			}
			if s.ch == '*' {
				s.readRune()
				if s.ch == '/' {
					s.readRune()
					return nil
				}
				continue
			}
			s.readRune()
		}
	}
	return nil
}

func (s *requestScanner) skipTrivia(src *Source) error {
	for {
		switch {
		case s.ch != 0 && unicode.IsSpace(s.ch):
			s.readRune()
		case s.ch == '/':
			next, _ := utf8.DecodeRuneInString(s.input[s.offset:])
			if next != '/' && next != '*' {
				return nil
			}
			if err := s.skipCommentOrSlash(src); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
