package parser

import (
	"fmt"

	"github.com/dshills/m2docs/pkg/types"
)

// Parser runs both documentation block parsers over a source file
type Parser struct{}

// New creates a new Parser instance
func New() *Parser {
	return &Parser{}
}

// Parse extracts all raw documentation blocks from file. doc/// blocks come
// first, then document { } blocks, each in order of appearance.
//
// Structural problems are recorded in the result rather than returned:
// a malformed block never prevents extraction of its siblings.
func (p *Parser) Parse(file types.RawFile) *types.ParseResult {
	result := &types.ParseResult{}

	for _, block := range ParseDocBlocks(file.Content) {
		result.Blocks = append(result.Blocks, block)
	}

	for _, span := range ExtractDocumentBlocks(file.Content) {
		if !span.Balanced {
			// Best effort: end of input closes the block
			result.AddError(file.Path, span.Offset,
				fmt.Sprintf("%v at offset %d; consumed to end of input", types.ErrUnbalancedBlock, span.Offset))
		}
		result.Blocks = append(result.Blocks, ParseDocumentBlock(span.Body))
	}

	return result
}
