// Package chunker divides raw source content into fixed-size overlapping token
// windows for downstream retrieval indexes.
//
// Tokens are whitespace-delimited. Windows hold MaxTokens tokens and
// neighboring windows share Overlap tokens, so text near a window boundary is
// always seen whole by at least one window.
//
// # Basic Usage
//
//	c, err := chunker.New(200, 40)
//	if err != nil {
//	    log.Fatal(err) // overlap >= max tokens
//	}
//
//	chunks, err := c.ChunkFile(types.RawFile{Path: "ideals.m2", Content: src})
//	for _, chunk := range chunks {
//	    fmt.Printf("chunk %d: tokens %d-%d\n",
//	        chunk.ChunkID, chunk.TokenStart, chunk.TokenEnd)
//	}
//
// # Window Layout
//
// With max tokens 5 and overlap 2 over 12 tokens the windows start at 0, 3, 6
// and 9. The last window covers tokens 9-11 and is shorter than the rest.
//
// # Configuration Errors
//
// An overlap that is negative or not smaller than the window size fails with
// types.ErrInvalidChunkConfig before any window is produced:
//
//	_, err := chunker.Windows(tokens, 5, 5)
//	errors.Is(err, types.ErrInvalidChunkConfig) // true
package chunker
