package extractor

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/m2docs/internal/chunker"
	"github.com/dshills/m2docs/internal/normalizer"
	"github.com/dshills/m2docs/internal/parser"
	"github.com/dshills/m2docs/pkg/types"
)

// Extractor coordinates the extraction pipeline: parse -> normalize, and
// independently tokenize -> chunk, over a whole corpus
type Extractor struct {
	parser *parser.Parser
	cache  *Cache // Optional
}

// Config contains configuration for an extraction run
type Config struct {
	Workers   int // Number of concurrent workers (default: runtime.NumCPU())
	MaxTokens int // Chunk window size (default: chunker.DefaultMaxTokens)
	Overlap   int // Chunk overlap; negative means chunker.DefaultOverlap

	SkipEntries bool // Do not produce the record stream
	SkipChunks  bool // Do not produce the chunk stream

	// OnFileDone is called after each file is processed, from worker goroutines
	OnFileDone func(path string)
}

// DefaultConfig returns the default extraction configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:   runtime.NumCPU(),
		MaxTokens: chunker.DefaultMaxTokens,
		Overlap:   chunker.DefaultOverlap,
	}
}

// Statistics contains statistics about an extraction run
type Statistics struct {
	FilesProcessed   int
	EntriesExtracted int
	ChunksCreated    int
	Warnings         int // Entries missing both headline and description
	ParseErrors      int
	CacheHits        int
	Duration         time.Duration
	ErrorMessages    []string
}

// Result holds both output streams of an extraction run, ordered by source path
type Result struct {
	Entries []types.Entry
	Chunks  []types.Chunk
	Stats   *Statistics
}

// fileOutput is the per-file slot written by exactly one worker
type fileOutput struct {
	entries []types.Entry
	chunks  []types.Chunk
}

// New creates a new Extractor. cache may be nil.
func New(cache *Cache) *Extractor {
	return &Extractor{
		parser: parser.New(),
		cache:  cache,
	}
}

// ExtractFile parses and normalizes a single file. Entries missing both
// headline and description increment warnings.
func (x *Extractor) ExtractFile(file types.RawFile, warnings *normalizer.Warnings) ([]types.Entry, []types.ParseError) {
	out, _ := x.extractFile(file)
	if warnings != nil {
		for i := 0; i < out.warnings; i++ {
			warnings.Add()
		}
	}
	return out.entries, out.parseErrors
}

// extractFile returns the normalized output of file, using the cache if set
func (x *Extractor) extractFile(file types.RawFile) (cachedFile, bool) {
	var key string
	if x.cache != nil {
		key = ComputeKey(file)
		if cached, ok := x.cache.get(key); ok {
			return cached, true
		}
	}

	result := x.parser.Parse(file)

	var warnings normalizer.Warnings
	entries := normalizer.NormalizeFile(result, file.Path, &warnings)

	for i := range entries {
		if !entries[i].HasCoreContent() {
			log.Printf("Missing headline/description in %s (entry #%d, syntax=%s)",
				file.Path, i, entries[i].Syntax)
		}
	}

	out := cachedFile{
		entries:     entries,
		parseErrors: result.Errors,
		warnings:    warnings.Count(),
	}
	if x.cache != nil {
		x.cache.set(key, out)
	}
	return out, false
}

// Extract runs the pipeline over files. Files are processed concurrently;
// the output streams are ordered by source path regardless of completion
// order. A chunk configuration error fails the run before any file is
// processed.
func (x *Extractor) Extract(ctx context.Context, files []types.RawFile, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var ch *chunker.Chunker
	if !config.SkipChunks {
		maxTokens, overlap := config.MaxTokens, config.Overlap
		if maxTokens == 0 {
			maxTokens = chunker.DefaultMaxTokens
		}
		if overlap < 0 {
			overlap = chunker.DefaultOverlap
		}
		var err error
		if ch, err = chunker.New(maxTokens, overlap); err != nil {
			return nil, err
		}
	}

	startTime := time.Now()
	sorted := sortedFiles(files)
	outputs := make([]fileOutput, len(sorted))

	var (
		warnings    normalizer.Warnings
		parseErrors int32
		cacheHits   int32
		mu          sync.Mutex // Protects stats.ErrorMessages
	)
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range sorted {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := sorted[i]

			if !config.SkipEntries {
				out, hit := x.extractFile(file)
				if hit {
					atomic.AddInt32(&cacheHits, 1)
				}
				for j := 0; j < out.warnings; j++ {
					warnings.Add()
				}
				if len(out.parseErrors) > 0 {
					atomic.AddInt32(&parseErrors, int32(len(out.parseErrors)))
					mu.Lock()
					for _, pe := range out.parseErrors {
						log.Printf("Parse error in %s: %s", pe.File, pe.Message)
						stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %s", pe.File, pe.Message))
					}
					mu.Unlock()
				}
				outputs[i].entries = out.entries
			}

			if ch != nil {
				chunks, err := ch.ChunkFile(file)
				if err != nil {
					return fmt.Errorf("failed to chunk %s: %w", file.Path, err)
				}
				outputs[i].chunks = chunks
			}

			if config.OnFileDone != nil {
				config.OnFileDone(file.Path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Entries: []types.Entry{}, Chunks: []types.Chunk{}, Stats: stats}
	for _, out := range outputs {
		result.Entries = append(result.Entries, out.entries...)
		result.Chunks = append(result.Chunks, out.chunks...)
	}

	stats.FilesProcessed = len(sorted)
	stats.EntriesExtracted = len(result.Entries)
	stats.ChunksCreated = len(result.Chunks)
	stats.Warnings = warnings.Count()
	stats.ParseErrors = int(parseErrors)
	stats.CacheHits = int(cacheHits)
	stats.Duration = time.Since(startTime)

	return result, nil
}

// sortedFiles returns a copy of files ordered by path
func sortedFiles(files []types.RawFile) []types.RawFile {
	sorted := make([]types.RawFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}
