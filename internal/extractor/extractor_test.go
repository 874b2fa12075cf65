package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/m2docs/internal/normalizer"
	"github.com/dshills/m2docs/internal/reader"
	"github.com/dshills/m2docs/pkg/types"
)

const docFile = `doc ///
  Key
    foo
  Headline
    a foo
///
`

func loadCorpus(t *testing.T) []types.RawFile {
	t.Helper()
	r, err := reader.New(&reader.Config{Extensions: []string{".m2"}})
	require.NoError(t, err)
	files, warnings, err := r.Read(context.Background(), "testdata/corpus")
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, files, 3)
	return files
}

func TestExtract_Corpus(t *testing.T) {
	x := New(NewCache(16))
	result, err := x.Extract(context.Background(), loadCorpus(t), &Config{Workers: 2, MaxTokens: 200, Overlap: 40})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)

	// Ordered by path: alpha.m2, broken.m2, sub/beta.m2
	alpha := result.Entries[0]
	assert.Equal(t, []string{"alpha", "alphaOptions"}, alpha.Keys)
	assert.Equal(t, "first test function", alpha.Headline)
	assert.Equal(t, "alpha n", alpha.Usage)
	assert.Equal(t, "Computes alpha of ZZ values.", alpha.Description)
	assert.Equal(t, []string{"beta"}, alpha.SeeAlso)
	assert.Equal(t, types.SyntaxDoc, alpha.Syntax)
	assert.True(t, strings.HasSuffix(alpha.Source, "alpha.m2"))

	broken := result.Entries[1]
	assert.Equal(t, []string{"broken"}, broken.Keys)
	assert.Equal(t, "never closed", broken.Headline)
	assert.Equal(t, types.SyntaxDocument, broken.Syntax)

	beta := result.Entries[2]
	assert.Equal(t, []string{"beta", "betaTable"}, beta.Keys)
	assert.Equal(t, "second test function", beta.Headline)
	assert.Equal(t, []string{"alpha"}, beta.SeeAlso)
	assert.Equal(t, types.SyntaxDocument, beta.Syntax)

	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 3, result.Stats.EntriesExtracted)
	assert.Equal(t, 1, result.Stats.ParseErrors)
	assert.Equal(t, 0, result.Stats.Warnings)
	require.Len(t, result.Stats.ErrorMessages, 1)
	assert.Contains(t, result.Stats.ErrorMessages[0], "unbalanced")

	// One small file -> one chunk each
	require.Len(t, result.Chunks, 3)
	for i, c := range result.Chunks {
		assert.Equal(t, result.Entries[i].Source, c.Source)
		assert.Equal(t, 0, c.ChunkID)
		assert.Equal(t, 0, c.TokenStart)
		assert.NoError(t, c.Validate())
	}
	assert.Equal(t, 3, result.Stats.ChunksCreated)
}

func TestExtract_DeterministicOrder(t *testing.T) {
	var files []types.RawFile
	for i := 20; i > 0; i-- {
		files = append(files, types.RawFile{
			Path:    fmt.Sprintf("f%02d.m2", i),
			Content: strings.Replace(docFile, "foo", fmt.Sprintf("foo%02d", i), 2),
		})
	}

	x := New(nil)
	first, err := x.Extract(context.Background(), files, &Config{Workers: 8, MaxTokens: 4, Overlap: 1})
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		again, err := x.Extract(context.Background(), files, &Config{Workers: 8, MaxTokens: 4, Overlap: 1})
		require.NoError(t, err)
		assert.Equal(t, first.Entries, again.Entries)
		assert.Equal(t, first.Chunks, again.Chunks)
	}

	require.Len(t, first.Entries, 20)
	for i, e := range first.Entries {
		assert.Equal(t, fmt.Sprintf("f%02d.m2", i+1), e.Source)
		assert.Equal(t, []string{fmt.Sprintf("foo%02d", i+1)}, e.Keys)
	}

	// Chunk IDs restart per file and increase within it
	prev := ""
	next := 0
	for _, c := range first.Chunks {
		if c.Source != prev {
			prev, next = c.Source, 0
		}
		assert.Equal(t, next, c.ChunkID)
		next++
	}
}

func TestExtract_CacheHits(t *testing.T) {
	cache := NewCache(16)
	x := New(cache)
	files := []types.RawFile{{Path: "a.m2", Content: docFile}}

	first, err := x.Extract(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.CacheHits)
	assert.Equal(t, 1, cache.Size())

	second, err := x.Extract(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.CacheHits)
	assert.Equal(t, first.Entries, second.Entries)

	// Changed content is a miss
	files[0].Content = strings.Replace(docFile, "a foo", "another foo", 1)
	third, err := x.Extract(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Stats.CacheHits)
	assert.Equal(t, "another foo", third.Entries[0].Headline)
}

func TestExtract_CachedEntriesAreCopies(t *testing.T) {
	x := New(NewCache(4))
	files := []types.RawFile{{Path: "a.m2", Content: docFile}}

	first, err := x.Extract(context.Background(), files, nil)
	require.NoError(t, err)
	first.Entries[0].Keys[0] = "mutated"

	second, err := x.Extract(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, second.Entries[0].Keys)
}

func TestExtract_Warnings(t *testing.T) {
	files := []types.RawFile{{
		Path:    "empty.m2",
		Content: "doc ///\nKey\n  lonely\n///\n",
	}}

	result, err := New(nil).Extract(context.Background(), files, nil)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 1, result.Stats.Warnings)
	assert.Equal(t, []string{"lonely"}, result.Entries[0].Keys)
}

func TestExtract_InvalidChunkConfig(t *testing.T) {
	files := []types.RawFile{{Path: "a.m2", Content: docFile}}

	_, err := New(nil).Extract(context.Background(), files, &Config{MaxTokens: 5, Overlap: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidChunkConfig))
}

func TestExtract_SkipStreams(t *testing.T) {
	files := []types.RawFile{{Path: "a.m2", Content: docFile}}
	x := New(nil)

	onlyChunks, err := x.Extract(context.Background(), files, &Config{SkipEntries: true, MaxTokens: 10, Overlap: 2})
	require.NoError(t, err)
	assert.Empty(t, onlyChunks.Entries)
	assert.NotEmpty(t, onlyChunks.Chunks)

	onlyEntries, err := x.Extract(context.Background(), files, &Config{SkipChunks: true})
	require.NoError(t, err)
	assert.Len(t, onlyEntries.Entries, 1)
	assert.Empty(t, onlyEntries.Chunks)
}

func TestExtract_EmptyInput(t *testing.T) {
	result, err := New(nil).Extract(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, result.Entries)
	assert.NotNil(t, result.Chunks)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Chunks)
	assert.Equal(t, 0, result.Stats.FilesProcessed)
}

func TestExtract_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []types.RawFile{{Path: "a.m2", Content: docFile}}
	_, err := New(nil).Extract(ctx, files, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtract_OnFileDone(t *testing.T) {
	files := []types.RawFile{
		{Path: "a.m2", Content: docFile},
		{Path: "b.m2", Content: docFile},
	}

	var mu sync.Mutex
	var seen []string
	_, err := New(nil).Extract(context.Background(), files, &Config{
		Workers:   2,
		MaxTokens: 200,
		Overlap:   40,
		OnFileDone: func(path string) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, path)
		},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.m2", "b.m2"}, seen)
}

func TestExtractFile(t *testing.T) {
	var warnings normalizer.Warnings
	x := New(nil)

	entries, errs := x.ExtractFile(types.RawFile{Path: "a.m2", Content: docFile + "doc ///\nKey\n  bare\n///\n"}, &warnings)
	assert.Empty(t, errs)
	require.Len(t, entries, 2)
	assert.Equal(t, "a foo", entries[0].Headline)
	assert.Equal(t, 1, warnings.Count())
}

func TestCache(t *testing.T) {
	cache := NewCache(2)
	a := types.RawFile{Path: "a.m2", Content: "x"}
	b := types.RawFile{Path: "b.m2", Content: "x"}
	c := types.RawFile{Path: "c.m2", Content: "x"}

	assert.NotEqual(t, ComputeKey(a), ComputeKey(b), "path is part of the key")
	assert.Equal(t, ComputeKey(a), ComputeKey(types.RawFile{Path: "a.m2", Content: "x"}))

	cache.set(ComputeKey(a), cachedFile{warnings: 1})
	cache.set(ComputeKey(b), cachedFile{warnings: 2})
	cache.set(ComputeKey(c), cachedFile{warnings: 3})
	assert.Equal(t, 2, cache.Size())

	_, ok := cache.get(ComputeKey(a))
	assert.False(t, ok, "oldest entry evicted")
	got, ok := cache.get(ComputeKey(c))
	require.True(t, ok)
	assert.Equal(t, 3, got.warnings)

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestNewCache_DefaultSize(t *testing.T) {
	cache := NewCache(0)
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Size())
}
