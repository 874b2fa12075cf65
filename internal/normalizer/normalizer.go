// Package normalizer maps raw documentation blocks of either syntax onto the
// canonical Entry schema.
package normalizer

import (
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/dshills/m2docs/internal/markup"
	"github.com/dshills/m2docs/pkg/types"
)

var (
	commaBeforePeriod = regexp.MustCompile(`\s*,\s*\.`)
	commaSpacing      = regexp.MustCompile(`\s*,\s*`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// Warnings counts entries that have neither a headline nor a description.
// It is safe for concurrent use.
type Warnings struct {
	n atomic.Int64
}

// Add increments the counter
func (w *Warnings) Add() {
	w.n.Add(1)
}

// Count returns the number of warnings recorded so far
func (w *Warnings) Count() int {
	return int(w.n.Load())
}

// Normalize converts a raw block into a canonical entry for source. The
// syntax tag is taken from the block variant. If the entry has neither a
// headline nor a description, warnings is incremented; the entry is still
// returned. warnings may be nil.
func Normalize(block types.RawBlock, source string, warnings *Warnings) types.Entry {
	return NormalizeAs(block, source, block.Syntax(), warnings)
}

// NormalizeAs is Normalize with an explicit syntax tag
func NormalizeAs(block types.RawBlock, source string, syntax types.Syntax, warnings *Warnings) types.Entry {
	fields := rawFields(block)
	delete(fields, "Subnodes")

	entry := types.Entry{
		Keys:        symbols(fields["Key"]),
		Headline:    scalar(fields["Headline"]),
		Usage:       scalar(fields["Usage"]),
		Description: description(fields),
		Examples:    scalar(fields["Example"]),
		SeeAlso:     symbols(fields["SeeAlso"]),
		Source:      source,
		Syntax:      syntax,
	}
	entry.FillDefaults()

	if !entry.HasCoreContent() && warnings != nil {
		warnings.Add()
	}

	return entry
}

// rawFields flattens either block variant into markup-stripped field values
func rawFields(block types.RawBlock) map[string]types.FieldValue {
	fields := make(map[string]types.FieldValue)

	switch b := block.(type) {
	case types.DocBlock:
		for name, text := range b.Sections {
			fields[name] = types.Scalar(markup.Strip(text))
		}
	case types.DocumentBlock:
		for name, v := range b.Fields {
			if v.IsList {
				fields[name] = types.List(markup.StripAll(v.List)...)
			} else {
				fields[name] = types.Scalar(markup.Strip(v.Scalar))
			}
		}
	}

	return fields
}

// symbols applies the key splitting rule: lists are cleaned element-wise,
// scalars are split on commas and newlines
func symbols(v types.FieldValue) []string {
	if v.IsList {
		return markup.CleanSymbols(v.List)
	}
	return markup.SplitSymbols(v.Scalar)
}

func scalar(v types.FieldValue) string {
	return strings.TrimSpace(v.Text())
}

// description joins Description and Text, strips markup and tidies spacing
func description(fields map[string]types.FieldValue) string {
	var parts []string
	for _, name := range []string{"Description", "Text"} {
		if v, ok := fields[name]; ok {
			if text := strings.TrimSpace(v.Text()); text != "" {
				parts = append(parts, text)
			}
		}
	}

	desc := markup.Strip(strings.Join(parts, "\n"))
	desc = commaBeforePeriod.ReplaceAllString(desc, ".")
	desc = commaSpacing.ReplaceAllString(desc, ", ")
	desc = whitespaceRun.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// NormalizeFile normalizes every block of a parsed file in order
func NormalizeFile(result *types.ParseResult, source string, warnings *Warnings) []types.Entry {
	entries := make([]types.Entry, 0, len(result.Blocks))
	for _, block := range result.Blocks {
		entries = append(entries, Normalize(block, source, warnings))
	}
	return entries
}
