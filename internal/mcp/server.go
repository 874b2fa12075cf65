package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/m2docs/internal/config"
	"github.com/dshills/m2docs/internal/extractor"
	"github.com/dshills/m2docs/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "m2docs"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	extractor *extractor.Extractor
	store     storage.Store // nil when no database is configured
}

// NewServer creates a new MCP server instance. The SQLite sink is opened
// when cfg.Storage.DBPath is set.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var store storage.Store
	if cfg.Storage.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		s, err := storage.NewSQLiteStore(ctx, cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = s
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		cfg:       cfg,
		extractor: extractor.New(extractor.NewCache(cfg.Extract.CacheSize)),
		store:     store,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the storage connection, if any
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(parseDocsTool(), s.handleParseDocs)
	s.mcp.AddTool(chunkTextTool(), s.handleChunkText)
	s.mcp.AddTool(extractCorpusTool(), s.handleExtractCorpus)
	s.mcp.AddTool(listEntriesTool(), s.handleListEntries)
}
