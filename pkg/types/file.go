package types

// RawFile is one source file as produced by the reader
type RawFile struct {
	Path    string // Relative to corpus root, slash separated
	Content string
}
