// Package extractor coordinates the end-to-end extraction pipeline for a
// Macaulay2 documentation corpus.
//
// The extractor runs two independent pipelines over every input file:
// parse -> normalize produces the record stream, and tokenize -> chunk
// produces the chunk stream. Files are processed by a bounded worker pool.
//
// # Basic Usage
//
//	x := extractor.New(extractor.NewCache(1024))
//
//	result, err := x.Extract(ctx, files, &extractor.Config{
//	    Workers:   4,
//	    MaxTokens: 200,
//	    Overlap:   40,
//	})
//
//	fmt.Printf("Extracted %d entries in %v\n", result.Stats.EntriesExtracted, result.Stats.Duration)
//
// # Ordering
//
// Both streams are ordered by source path, then by position within the
// file. Worker completion order never affects output.
//
// # Caching
//
// A Cache remembers the normalized entries of files by a SHA-256 hash of
// path and content, so re-extracting an unchanged corpus skips parsing.
// Chunking is cheap and always recomputed.
//
// # Diagnostics
//
// Entries missing both headline and description are logged and counted in
// Statistics.Warnings. Unbalanced document blocks are logged and counted
// in Statistics.ParseErrors; the partial block is still emitted.
package extractor
