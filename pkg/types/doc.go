// Package types provides shared type definitions for m2docs.
//
// This package defines the domain types passed between the extraction
// components: raw source files, the two raw documentation block variants,
// canonical documentation entries and token chunks.
//
// # Raw Blocks
//
// Macaulay2 sources embed documentation in two syntaxes. Each parser yields
// one variant of the sealed RawBlock interface:
//
//	block := types.DocBlock{Sections: map[string]string{
//	    "Key":      "Ideal",
//	    "Headline": "ideals of rings",
//	}}
//	block.Syntax() // types.SyntaxDoc
//
//	block := types.DocumentBlock{Fields: map[string]types.FieldValue{
//	    "Key":     types.Scalar("hash tables"),
//	    "SeeAlso": types.List("foo", "bar"),
//	}}
//	block.Syntax() // types.SyntaxDocument
//
// Only this package can add variants, so a type switch over RawBlock is
// exhaustive.
//
// # Canonical Entries
//
// Entry is the normalized record written to the docs JSONL stream. All seven
// content fields are always present; list fields encode as [] rather than null.
//
// # Chunks
//
// Chunk is a fixed-size token window over one file's content:
//
//	chunk := types.Chunk{
//	    Text:       "doc /// Key Ideal ...",
//	    Source:     "packages/Macaulay2Doc/ideals.m2",
//	    ChunkID:    0,
//	    TokenStart: 0,
//	    TokenEnd:   200,
//	}
//
// # Validation
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
