package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/m2docs/internal/chunker"
	"github.com/dshills/m2docs/internal/extractor"
	"github.com/dshills/m2docs/internal/normalizer"
	"github.com/dshills/m2docs/internal/reader"
	"github.com/dshills/m2docs/internal/storage"
	"github.com/dshills/m2docs/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeStorageDisabled = -32001 // No database configured
	ErrorCodeNotExtracted    = -32002 // No stored run matches the request
)

const (
	// DefaultSource is recorded on entries and chunks when no source is given
	DefaultSource = "<input>"
	// DefaultListLimit is the default number of entries returned by list_entries
	DefaultListLimit = 100
	// MaxListLimit bounds the limit parameter of list_entries
	MaxListLimit = 1000
	// maxReportedErrors bounds the error messages included in a response
	maxReportedErrors = 5
)

// handleParseDocs handles the parse_docs tool invocation
func (s *Server) handleParseDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or not a string",
		})
	}
	source := getStringDefault(args, "source", DefaultSource)

	var warnings normalizer.Warnings
	entries, parseErrors := s.extractor.ExtractFile(types.RawFile{Path: source, Content: content}, &warnings)

	messages := make([]string, 0, len(parseErrors))
	for _, pe := range parseErrors {
		messages = append(messages, pe.Message)
	}

	response := map[string]interface{}{
		"source":       source,
		"entries":      entries,
		"entry_count":  len(entries),
		"warnings":     warnings.Count(),
		"parse_errors": messages,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChunkText handles the chunk_text tool invocation
func (s *Server) handleChunkText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or not a string",
		})
	}
	source := getStringDefault(args, "source", DefaultSource)
	maxTokens := getIntDefault(args, "max_tokens", s.cfg.Chunking.MaxTokens)
	overlap := getIntDefault(args, "overlap", s.cfg.Chunking.Overlap)

	ch, err := chunker.New(maxTokens, overlap)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid chunk configuration", map[string]interface{}{
			"param":      "overlap",
			"max_tokens": maxTokens,
			"overlap":    overlap,
			"reason":     err.Error(),
		})
	}

	chunks, err := ch.ChunkFile(types.RawFile{Path: source, Content: content})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"source":      source,
		"max_tokens":  maxTokens,
		"overlap":     overlap,
		"chunks":      chunks,
		"chunk_count": len(chunks),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExtractCorpus handles the extract_corpus tool invocation
func (s *Server) handleExtractCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	opts := extractor.CorpusOptions{
		Root: path,
		Reader: &reader.Config{
			Extensions: s.cfg.Paths.Extensions,
			Ignore:     s.cfg.Paths.Ignore,
		},
		Extract: s.cfg.ExtractorConfig(),
	}

	if getBoolDefault(args, "write_jsonl", true) {
		opts.DocsPath = getStringDefault(args, "output_docs", s.cfg.Output.Docs)
		opts.ChunksPath = getStringDefault(args, "output_chunks", s.cfg.Output.Chunks)
		for param, p := range map[string]string{"output_docs": opts.DocsPath, "output_chunks": opts.ChunksPath} {
			if p == extractor.Stdout {
				return nil, newMCPError(ErrorCodeInvalidParams, "stdout is reserved for the protocol", map[string]interface{}{
					"param": param,
					"value": p,
				})
			}
		}
	}
	if getBoolDefault(args, "save", true) && s.store != nil {
		opts.Store = s.store
	}

	result, err := s.extractor.ExtractCorpus(ctx, opts)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats := result.Stats
	response := map[string]interface{}{
		"files_processed":   stats.FilesProcessed,
		"entries_extracted": stats.EntriesExtracted,
		"chunks_created":    stats.ChunksCreated,
		"warnings":          stats.Warnings,
		"parse_errors":      stats.ParseErrors,
		"cache_hits":        stats.CacheHits,
		"duration_ms":       stats.Duration.Milliseconds(),
	}
	if opts.DocsPath != "" {
		response["output_docs"] = opts.DocsPath
		response["output_chunks"] = opts.ChunksPath
	}
	if result.RunID != "" {
		response["run_id"] = result.RunID
	}
	if len(result.ReadWarnings) > 0 {
		response["read_warnings"] = truncate(result.ReadWarnings)
	}
	if len(stats.ErrorMessages) > 0 {
		response["errors"] = truncate(stats.ErrorMessages)
		response["error_count"] = len(stats.ErrorMessages)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListEntries handles the list_entries tool invocation
func (s *Server) handleListEntries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	if s.store == nil {
		return nil, newMCPError(ErrorCodeStorageDisabled, "no database configured", map[string]interface{}{
			"setting": "storage.db_path",
		})
	}

	limit := getIntDefault(args, "limit", DefaultListLimit)
	if limit < 1 || limit > MaxListLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 1000", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	filter := storage.EntryFilter{
		RunID:  getStringDefault(args, "run_id", ""),
		Source: getStringDefault(args, "source", ""),
		Key:    getStringDefault(args, "key", ""),
		Limit:  limit,
	}
	if syntax := getStringDefault(args, "syntax", ""); syntax != "" {
		filter.Syntax = types.Syntax(syntax)
		if err := filter.Syntax.Validate(); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid syntax", map[string]interface{}{
				"param":   "syntax",
				"value":   syntax,
				"allowed": []string{string(types.SyntaxDoc), string(types.SyntaxDocument)},
			})
		}
	}

	var run *storage.Run
	var err error
	if filter.RunID == "" {
		run, err = s.store.LatestRun(ctx)
	} else {
		run, err = s.store.GetRun(ctx, filter.RunID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotExtracted, "no matching extraction run", map[string]interface{}{
			"run_id": filter.RunID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load run", map[string]interface{}{
			"error": err.Error(),
		})
	}
	filter.RunID = run.ID

	entries, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list entries", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run": map[string]interface{}{
			"id":         run.ID,
			"root":       run.Root,
			"status":     run.Status,
			"entries":    run.Entries,
			"started_at": run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"entries":     entries,
		"entry_count": len(entries),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that path is an absolute, readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// truncate keeps the first few messages of a list
func truncate(messages []string) []string {
	if len(messages) > maxReportedErrors {
		return messages[:maxReportedErrors]
	}
	return messages
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
