package parser

import (
	"regexp"
	"strings"

	"github.com/dshills/m2docs/pkg/types"
)

// SectionNames is the closed vocabulary of doc/// section headers
var SectionNames = []string{
	"Key", "Headline", "Usage", "Description", "Example", "SeeAlso",
	"Text", "Subnodes", "Caveat", "Synopsis", "Returns", "Notes",
}

var (
	docEnvelope = regexp.MustCompile(`(?s)doc\s*///(.*?)///`)

	sectionSet = func() map[string]bool {
		m := make(map[string]bool, len(SectionNames))
		for _, name := range SectionNames {
			m[name] = true
		}
		return m
	}()
)

// ParseDocBlocks extracts every doc/// ... /// block in content.
// Envelopes do not nest; the first closing /// ends the block.
func ParseDocBlocks(content string) []types.DocBlock {
	matches := docEnvelope.FindAllStringSubmatchIndex(content, -1)
	blocks := make([]types.DocBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, parseSections(content[m[2]:m[3]]))
	}
	return blocks
}

// parseSections splits a block interior on header lines. A header line holds
// exactly one section name and nothing else apart from indentation.
func parseSections(body string) types.DocBlock {
	block := types.DocBlock{Sections: make(map[string]string)}

	var (
		current string
		buf     []string
	)
	flush := func() {
		if current != "" {
			block.Sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if name := strings.TrimSpace(line); sectionSet[name] {
			flush()
			current = name
			buf = buf[:0]
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return block
}
