package types

// ParseResult represents the output of parsing one source file
type ParseResult struct {
	Blocks []RawBlock

	// Non-fatal structural problems encountered during parsing
	Errors []ParseError
}

// ParseError represents a structural problem found while scanning a file
type ParseError struct {
	File    string
	Offset  int // Byte offset of the offending block
	Message string
}

// Error implements the error interface
func (pe *ParseError) Error() string {
	return pe.Message
}

// HasErrors returns true if any parsing errors occurred
func (pr *ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// AddError adds a parsing error to the result
func (pr *ParseResult) AddError(file string, offset int, msg string) {
	pr.Errors = append(pr.Errors, ParseError{
		File:    file,
		Offset:  offset,
		Message: msg,
	})
}
