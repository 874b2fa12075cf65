package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/m2docs/internal/markup"
	"github.com/dshills/m2docs/pkg/types"
)

var documentOpen = regexp.MustCompile(`\bdocument\s*\{`)

// DocumentSpan locates the body of one document { ... } block
type DocumentSpan struct {
	Offset   int // Byte offset of the "document" keyword
	Body     string
	Balanced bool // False when end of input closed the block
}

// ScanBalanced scans text from start with a brace depth of 1 and returns the
// index of the closing brace that brings depth back to 0. If the input ends
// first, it returns len(text) and false.
func ScanBalanced(text string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return len(text), false
}

// ExtractDocumentBlocks finds every document { ... } block in text.
// An unbalanced block runs to the end of input and is reported with
// Balanced set to false.
func ExtractDocumentBlocks(text string) []DocumentSpan {
	locs := documentOpen.FindAllStringIndex(text, -1)
	spans := make([]DocumentSpan, 0, len(locs))
	for _, loc := range locs {
		end, ok := ScanBalanced(text, loc[1])
		spans = append(spans, DocumentSpan{
			Offset:   loc[0],
			Body:     strings.TrimSpace(text[loc[1]:end]),
			Balanced: ok,
		})
	}
	return spans
}

// documentScanner holds the line state machine for one block body
type documentScanner struct {
	fields   map[string]types.FieldValue
	freeText []string

	key        string
	buf        []string
	collecting bool
}

// ParseDocumentBlock parses the key => value assignments of a block body.
// Lines outside any assignment are appended to the Description field.
func ParseDocumentBlock(body string) types.DocumentBlock {
	s := &documentScanner{fields: make(map[string]types.FieldValue)}

	for _, line := range strings.Split(body, "\n") {
		s.scanLine(line)
	}
	if s.key != "" {
		s.flush()
	}
	s.mergeFreeText()

	return types.DocumentBlock{Fields: s.fields}
}

func (s *documentScanner) scanLine(line string) {
	stripped := strings.TrimSpace(line)

	if lhs, rhs, found := strings.Cut(line, "=>"); found {
		if key := strings.TrimSpace(lhs); isIdentifier(key) {
			if s.key != "" {
				s.flush()
			}
			value := strings.TrimSpace(rhs)
			s.key = key
			s.buf = []string{value}
			s.collecting = strings.HasPrefix(value, "{") && !strings.HasSuffix(value, "}")
			if !s.collecting && !strings.HasSuffix(value, `\`) {
				s.flush()
			}
			return
		}
	}

	if s.key == "" {
		if stripped != "" {
			s.freeText = append(s.freeText, markup.Strip(stripped))
		}
		return
	}

	s.buf = append(s.buf, stripped)
	if s.collecting && strings.Contains(stripped, "}") {
		s.flush()
	}
}

// flush assigns the buffered value to the current key and resets the buffer
func (s *documentScanner) flush() {
	key := s.key
	val := strings.TrimRight(strings.TrimSpace(strings.Join(s.buf, "\n")), ",")
	s.key, s.buf, s.collecting = "", nil, false

	if val == "" {
		return
	}
	val = markup.Strip(val)

	switch {
	case len(val) >= 2 && val[0] == '{' && val[len(val)-1] == '}':
		s.fields[key] = types.List(markup.SplitSymbols(strings.TrimSpace(val[1 : len(val)-1]))...)
	case isQuoted(val):
		s.fields[key] = types.Scalar(strings.TrimSpace(val[1 : len(val)-1]))
	default:
		s.fields[key] = types.Scalar(strings.TrimSpace(val))
	}
}

// mergeFreeText appends unassigned lines to Description
func (s *documentScanner) mergeFreeText() {
	if len(s.freeText) == 0 {
		return
	}
	text := strings.Join(s.freeText, "\n")
	if desc, ok := s.fields["Description"]; ok {
		if d := desc.Text(); d != "" {
			text = d + "\n" + text
		}
	}
	s.fields["Description"] = types.Scalar(markup.Strip(strings.TrimSpace(text)))
}

func isQuoted(val string) bool {
	if len(val) < 2 {
		return false
	}
	first, last := val[0], val[len(val)-1]
	return first == last && (first == '"' || first == '\'')
}

// isIdentifier reports whether s is a bare identifier: a letter or underscore
// followed by letters, digits or underscores
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
