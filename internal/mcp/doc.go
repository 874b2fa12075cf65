// Package mcp implements the Model Context Protocol (MCP) server for m2docs.
//
// The MCP server exposes four tools:
//   - parse_docs: Parse Macaulay2 source text into normalized entries
//   - chunk_text: Split text into overlapping token windows
//   - extract_corpus: Run the full pipeline over a directory
//   - list_entries: Query entries stored by a previous extraction
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. Stdout carries
// protocol messages only, so extract_corpus refuses "-" as an output path
// and all diagnostics go to stderr.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	m2docs serve --db data/m2docs.db
//
// # Tool: parse_docs
//
//	Request:
//	{
//	  "name": "parse_docs",
//	  "arguments": {
//	    "content": "doc ///\nKey\n  foo\nHeadline\n  does foo\n///",
//	    "source": "Foo.m2"
//	  }
//	}
//
//	Response:
//	{
//	  "entries": [{"keys": ["foo"], "headline": "does foo", ...}],
//	  "entry_count": 1,
//	  "parse_errors": [],
//	  "source": "Foo.m2",
//	  "warnings": 0
//	}
//
// # Tool: chunk_text
//
// max_tokens and overlap default to the configured chunking settings and
// must satisfy 0 <= overlap < max_tokens.
//
// # Tool: extract_corpus
//
// Reads every configured file under an absolute directory, writes both JSONL
// streams and, when a database is configured, stores the run. The response
// carries the run statistics and run_id.
//
// # Tool: list_entries
//
// Requires a database. Filters by run (latest by default), source, syntax
// and key.
//
// # Error Handling
//
// Handlers return *MCPError with JSON-RPC error codes:
//   - -32602: Invalid parameters
//   - -32603: Internal error
//   - -32001: No database configured
//   - -32002: No matching extraction run
package mcp
