package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// parseDocsTool returns the tool definition for parse_docs
func parseDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "parse_docs",
		Description: "Parse Macaulay2 source text and return its normalized documentation entries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Macaulay2 source containing doc /// ... /// or document { ... } blocks",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source path recorded on every entry",
					"default":     DefaultSource,
				},
			},
			Required: []string{"content"},
		},
	}
}

// chunkTextTool returns the tool definition for chunk_text
func chunkTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_text",
		Description: "Split text into overlapping whitespace-token windows",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Text to chunk",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source path recorded on every chunk",
					"default":     DefaultSource,
				},
				"max_tokens": map[string]interface{}{
					"type":        "integer",
					"description": "Tokens per window (defaults to the configured value)",
					"minimum":     1,
				},
				"overlap": map[string]interface{}{
					"type":        "integer",
					"description": "Tokens shared by consecutive windows; must be less than max_tokens",
					"minimum":     0,
				},
			},
			Required: []string{"content"},
		},
	}
}

// extractCorpusTool returns the tool definition for extract_corpus
func extractCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_corpus",
		Description: "Extract documentation records and text chunks from a directory of Macaulay2 files",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the corpus directory",
				},
				"output_docs": map[string]interface{}{
					"type":        "string",
					"description": "Record JSONL destination (defaults to the configured path)",
				},
				"output_chunks": map[string]interface{}{
					"type":        "string",
					"description": "Chunk JSONL destination (defaults to the configured path)",
				},
				"write_jsonl": map[string]interface{}{
					"type":        "boolean",
					"description": "If false, skip writing JSONL files",
					"default":     true,
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "If true and a database is configured, store the run",
					"default":     true,
				},
			},
			Required: []string{"path"},
		},
	}
}

// listEntriesTool returns the tool definition for list_entries
func listEntriesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_entries",
		Description: "List documentation entries stored by a previous extraction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run to query (defaults to the latest run)",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Only entries from this source path",
				},
				"syntax": map[string]interface{}{
					"type":        "string",
					"description": "Only entries of this block syntax",
					"enum":        []string{"doc", "document"},
				},
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Only entries documenting this key",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries to return (1-1000)",
					"default":     DefaultListLimit,
					"minimum":     1,
					"maximum":     MaxListLimit,
				},
			},
		},
	}
}
