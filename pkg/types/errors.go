package types

import "errors"

// Domain errors for type validation
var (
	// Chunking errors
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")
	ErrInvalidTokenRange  = errors.New("token range must satisfy 0 <= start < end")
	ErrInvalidChunkID     = errors.New("chunk ID must be >= 0")
	ErrEmptyContent       = errors.New("content cannot be empty")

	// Entry errors
	ErrMissingSource = errors.New("source is required")
	ErrInvalidSyntax = errors.New("invalid syntax tag")

	// Structural parse errors
	ErrUnbalancedBlock = errors.New("unbalanced braces in document block")
)
