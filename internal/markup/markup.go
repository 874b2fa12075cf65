// Package markup removes Macaulay2 cross-reference markup from documentation
// text and normalizes symbol names.
package markup

import (
	"regexp"
	"strings"
)

var (
	// @TO "foo"@ and @TO foo@
	atQuotedRef = regexp.MustCompile(`@TO\s+"([^"]+)"@`)
	atBareRef   = regexp.MustCompile(`@TO\s+([^@"]+?)\s*@`)
	// TO "foo", TT "foo"
	quotedRef = regexp.MustCompile(`\b(?:TO|TT)\s+"([^"]+)"`)
	// TO foo, TT foo
	bareRef = regexp.MustCompile(`\b(?:TO|TT)\s+([A-Za-z0-9_.]+)`)

	symbolLead  = regexp.MustCompile(`^[{(\s"']+`)
	symbolTrail = regexp.MustCompile(`[})"']+$`)
	spaceRun    = regexp.MustCompile(`\s+`)
	symbolSep   = regexp.MustCompile(`[,\n]+`)
)

const paraMarker = "PARA{}"

// Strip removes inline cross-reference markup from text.
//
// The @-delimited forms are rewritten first so that "@TO foo@" yields "foo"
// rather than "@foo@". The rules are reapplied until the text stops changing,
// which makes Strip idempotent even for inputs like "TO TO x".
func Strip(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripOnce(text string) string {
	text = atQuotedRef.ReplaceAllString(text, "$1")
	text = atBareRef.ReplaceAllString(text, "$1")
	text = quotedRef.ReplaceAllString(text, "$1")
	text = bareRef.ReplaceAllString(text, "$1")
	return strings.ReplaceAll(text, paraMarker, "")
}

// StripAll applies Strip to every element. A nil slice stays nil.
func StripAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Strip(s)
	}
	return out
}

// CleanSymbol normalizes a single symbol name: markup is stripped, wrapping
// braces, parentheses and quotes are removed and whitespace is collapsed.
func CleanSymbol(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = strings.TrimSpace(Strip(s))
	s = symbolLead.ReplaceAllString(s, "")
	s = symbolTrail.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SplitSymbols splits s on runs of commas and newlines and cleans each piece.
// Pieces that are empty after cleaning are dropped.
func SplitSymbols(s string) []string {
	out := []string{}
	for _, piece := range symbolSep.Split(s, -1) {
		if sym := CleanSymbol(piece); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

// CleanSymbols cleans every element of items and drops empty results
func CleanSymbols(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if sym := CleanSymbol(item); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
