package types

// Chunk is a fixed-size token window over a source file
type Chunk struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	ChunkID    int    `json:"chunk_id"`    // 0-based emission order within Source
	TokenStart int    `json:"token_start"` // Inclusive
	TokenEnd   int    `json:"token_end"`   // Exclusive
}

// TokenCount returns the number of tokens covered by the chunk
func (c *Chunk) TokenCount() int {
	return c.TokenEnd - c.TokenStart
}

// Validate checks the chunk invariants
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return ErrEmptyContent
	}

	if c.ChunkID < 0 {
		return ErrInvalidChunkID
	}

	if c.TokenStart < 0 || c.TokenStart >= c.TokenEnd {
		return ErrInvalidTokenRange
	}

	if c.Source == "" {
		return ErrMissingSource
	}

	return nil
}
