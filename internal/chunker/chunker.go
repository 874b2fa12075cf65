package chunker

import (
	"fmt"
	"strings"

	"github.com/dshills/m2docs/pkg/types"
)

const (
	// DefaultMaxTokens is the default window size in tokens
	DefaultMaxTokens = 200

	// DefaultOverlap is the default number of tokens shared by neighboring windows
	DefaultOverlap = 40
)

// Window is one token range produced by Windows
type Window struct {
	Text  string
	Start int // Inclusive token index
	End   int // Exclusive token index
}

// Chunker creates fixed-size overlapping token chunks from file content
type Chunker struct {
	maxTokens int
	overlap   int
}

// New creates a Chunker. It returns an error wrapping
// types.ErrInvalidChunkConfig unless 0 <= overlap < maxTokens.
func New(maxTokens, overlap int) (*Chunker, error) {
	if err := ValidateConfig(maxTokens, overlap); err != nil {
		return nil, err
	}
	return &Chunker{maxTokens: maxTokens, overlap: overlap}, nil
}

// NewDefault creates a Chunker with DefaultMaxTokens and DefaultOverlap
func NewDefault() *Chunker {
	return &Chunker{maxTokens: DefaultMaxTokens, overlap: DefaultOverlap}
}

// MaxTokens returns the configured window size
func (c *Chunker) MaxTokens() int { return c.maxTokens }

// Overlap returns the configured overlap
func (c *Chunker) Overlap() int { return c.overlap }

// ChunkFile splits file content into token windows. ChunkID is the
// 0-based position of the window within the file.
func (c *Chunker) ChunkFile(file types.RawFile) ([]types.Chunk, error) {
	windows, err := Windows(Tokenize(file.Content), c.maxTokens, c.overlap)
	if err != nil {
		return nil, err
	}

	chunks := make([]types.Chunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, types.Chunk{
			Text:       w.Text,
			Source:     file.Path,
			ChunkID:    i,
			TokenStart: w.Start,
			TokenEnd:   w.End,
		})
	}

	return chunks, nil
}

// ValidateConfig checks that 0 <= overlap < maxTokens
func ValidateConfig(maxTokens, overlap int) error {
	if maxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be > 0, got %d", types.ErrInvalidChunkConfig, maxTokens)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must be >= 0, got %d", types.ErrInvalidChunkConfig, overlap)
	}
	if overlap >= maxTokens {
		return fmt.Errorf("%w: overlap (%d) must be smaller than max tokens (%d)",
			types.ErrInvalidChunkConfig, overlap, maxTokens)
	}
	return nil
}

// Tokenize splits content on runs of whitespace
func Tokenize(content string) []string {
	return strings.Fields(content)
}

// Windows slides a window of maxTokens tokens over tokens, stepping by
// maxTokens-overlap. Every window but the last holds exactly maxTokens
// tokens; the last window ends at len(tokens). No windows are produced for
// an empty token list.
func Windows(tokens []string, maxTokens, overlap int) ([]Window, error) {
	if err := ValidateConfig(maxTokens, overlap); err != nil {
		return nil, err
	}

	var windows []Window
	start := 0
	for start < len(tokens) {
		end := min(len(tokens), start+maxTokens)
		windows = append(windows, Window{
			Text:  strings.Join(tokens[start:end], " "),
			Start: start,
			End:   end,
		})
		if end == len(tokens) {
			break
		}
		start = end - overlap
	}

	return windows, nil
}

// EstimateTokenCount returns the number of whitespace-delimited tokens in text
func EstimateTokenCount(text string) int {
	return len(Tokenize(text))
}
