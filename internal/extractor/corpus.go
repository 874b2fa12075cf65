package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dshills/m2docs/internal/jsonl"
	"github.com/dshills/m2docs/internal/reader"
	"github.com/dshills/m2docs/internal/storage"
)

// Stdout is the output path that selects standard output
const Stdout = "-"

// CorpusOptions describes one end-to-end extraction over a directory
type CorpusOptions struct {
	Root    string
	Reader  *reader.Config
	Extract *Config

	// JSONL destinations; empty skips the stream, Stdout writes to stdout
	DocsPath   string
	ChunksPath string

	// Store receives both streams under a new run when set
	Store storage.Store

	// OnFilesRead is called once with the number of files found
	OnFilesRead func(n int)
}

// CorpusResult is the outcome of ExtractCorpus
type CorpusResult struct {
	*Result
	ReadWarnings []string
	RunID        string // Empty when no store was used
}

// ExtractCorpus reads every documentation file under opts.Root, runs the
// pipeline and writes the record and chunk streams to their destinations
func (x *Extractor) ExtractCorpus(ctx context.Context, opts CorpusOptions) (*CorpusResult, error) {
	rd, err := reader.New(opts.Reader)
	if err != nil {
		return nil, err
	}

	files, readWarnings, err := rd.Read(ctx, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	for _, w := range readWarnings {
		log.Printf("Warning: %s", w)
	}
	if opts.OnFilesRead != nil {
		opts.OnFilesRead(len(files))
	}

	result, err := x.Extract(ctx, files, opts.Extract)
	if err != nil {
		return nil, err
	}

	out := &CorpusResult{Result: result, ReadWarnings: readWarnings}

	if opts.DocsPath != "" {
		if err := writeStream(opts.DocsPath, func(w io.Writer) error {
			return jsonl.WriteEntries(w, result.Entries)
		}); err != nil {
			return nil, fmt.Errorf("failed to write records: %w", err)
		}
	}
	if opts.ChunksPath != "" {
		if err := writeStream(opts.ChunksPath, func(w io.Writer) error {
			return jsonl.WriteChunks(w, result.Chunks)
		}); err != nil {
			return nil, fmt.Errorf("failed to write chunks: %w", err)
		}
	}

	if opts.Store != nil {
		runID, err := saveRun(ctx, opts.Store, opts.Root, result)
		if err != nil {
			return nil, err
		}
		out.RunID = runID
	}

	return out, nil
}

// saveRun stores both streams under a new run and marks it complete, or
// failed if any write fails
func saveRun(ctx context.Context, store storage.Store, root string, result *Result) (string, error) {
	run, err := store.CreateRun(ctx, root)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	run.Files = result.Stats.FilesProcessed
	run.Entries = len(result.Entries)
	run.Chunks = len(result.Chunks)
	run.Warnings = result.Stats.Warnings
	run.ParseErrors = result.Stats.ParseErrors

	saveErr := store.SaveEntries(ctx, run.ID, result.Entries)
	if saveErr == nil {
		saveErr = store.SaveChunks(ctx, run.ID, result.Chunks)
	}
	if saveErr != nil {
		run.Status = storage.RunStatusFailed
		if err := store.FinishRun(ctx, run); err != nil {
			return "", errors.Join(saveErr, err)
		}
		return "", fmt.Errorf("failed to save run %s: %w", run.ID, saveErr)
	}

	run.Status = storage.RunStatusComplete
	if err := store.FinishRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// writeStream writes one JSONL stream to path, creating parent directories
func writeStream(path string, write func(io.Writer) error) error {
	if path == Stdout {
		return write(os.Stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
