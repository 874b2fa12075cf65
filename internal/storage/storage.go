package storage

import (
	"context"
	"time"

	"github.com/dshills/m2docs/pkg/types"
)

// Store persists extraction runs together with their record and chunk streams
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, root string) (*Run, error)
	FinishRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	LatestRun(ctx context.Context) (*Run, error)

	// Stream operations
	SaveEntries(ctx context.Context, runID string, entries []types.Entry) error
	SaveChunks(ctx context.Context, runID string, chunks []types.Chunk) error
	ListEntries(ctx context.Context, filter EntryFilter) ([]types.Entry, error)
	ListChunks(ctx context.Context, filter ChunkFilter) ([]types.Chunk, error)

	// Database operations
	Close() error
}

// Run status values
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
)

// Run represents one extraction over a corpus
type Run struct {
	ID          string // UUID
	Root        string
	Status      string
	Files       int
	Entries     int
	Chunks      int
	Warnings    int
	ParseErrors int
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while running
}

// EntryFilter narrows ListEntries. Empty fields match everything.
type EntryFilter struct {
	RunID  string
	Source string
	Syntax types.Syntax
	Key    string // Exact match against any of the entry's keys
	Limit  int    // 0 means no limit
}

// ChunkFilter narrows ListChunks. Empty fields match everything.
type ChunkFilter struct {
	RunID  string
	Source string
	Limit  int
}
