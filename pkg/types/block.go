package types

import "strings"

// Syntax identifies which documentation syntax a block came from
type Syntax string

const (
	SyntaxDoc      Syntax = "doc"
	SyntaxDocument Syntax = "document"
)

// Validate checks if the syntax tag is known
func (s Syntax) Validate() error {
	switch s {
	case SyntaxDoc, SyntaxDocument:
		return nil
	default:
		return ErrInvalidSyntax
	}
}

// RawBlock is a parsed but not yet normalized documentation block.
// It is implemented by DocBlock and DocumentBlock only.
type RawBlock interface {
	Syntax() Syntax
	rawBlock()
}

// DocBlock holds the labeled sections of a doc/// ... /// block
type DocBlock struct {
	Sections map[string]string
}

func (DocBlock) Syntax() Syntax { return SyntaxDoc }
func (DocBlock) rawBlock()      {}

// DocumentBlock holds the key/value fields of a document { ... } block
type DocumentBlock struct {
	Fields map[string]FieldValue
}

func (DocumentBlock) Syntax() Syntax { return SyntaxDocument }
func (DocumentBlock) rawBlock()      {}

// FieldValue is either a scalar string or an ordered list of strings
type FieldValue struct {
	Scalar string
	List   []string
	IsList bool
}

// Scalar builds a scalar field value
func Scalar(s string) FieldValue {
	return FieldValue{Scalar: s}
}

// List builds a list field value
func List(items ...string) FieldValue {
	if items == nil {
		items = []string{}
	}
	return FieldValue{List: items, IsList: true}
}

// Text returns the value as a single string; list elements are joined by newlines
func (v FieldValue) Text() string {
	if v.IsList {
		return strings.Join(v.List, "\n")
	}
	return v.Scalar
}
