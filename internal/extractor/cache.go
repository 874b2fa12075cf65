package extractor

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/m2docs/pkg/types"
)

// DefaultCacheSize is the number of parsed files kept when no size is given
const DefaultCacheSize = 1024

// cachedFile is the normalized output of one file
type cachedFile struct {
	entries     []types.Entry
	parseErrors []types.ParseError
	warnings    int
}

// Cache keeps the normalized entries of recently extracted files, keyed by
// a hash of path and content. A Cache is passed explicitly to the Extractor
// that uses it; there is no shared default instance.
type Cache struct {
	cache *lru.Cache[string, cachedFile]
}

// NewCache creates a cache holding up to maxLen files
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedFile](maxLen)
	if err != nil {
		// Should never happen with positive size, but fallback to default
		cache, _ = lru.New[string, cachedFile](DefaultCacheSize)
	}
	return &Cache{cache: cache}
}

// get returns a copy of the cached output so callers cannot mutate it
func (c *Cache) get(key string) (cachedFile, bool) {
	f, ok := c.cache.Get(key)
	if !ok {
		return cachedFile{}, false
	}
	return cachedFile{
		entries:     copyEntries(f.entries),
		parseErrors: append([]types.ParseError(nil), f.parseErrors...),
		warnings:    f.warnings,
	}, true
}

func (c *Cache) set(key string, f cachedFile) {
	c.cache.Add(key, cachedFile{
		entries:     copyEntries(f.entries),
		parseErrors: append([]types.ParseError(nil), f.parseErrors...),
		warnings:    f.warnings,
	})
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeKey computes the cache key of a file
func ComputeKey(file types.RawFile) string {
	h := sha256.New()
	h.Write([]byte(file.Path))
	h.Write([]byte{0})
	h.Write([]byte(file.Content))
	return hex.EncodeToString(h.Sum(nil))
}

func copyEntries(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		e.Keys = append([]string{}, e.Keys...)
		e.SeeAlso = append([]string{}, e.SeeAlso...)
		out[i] = e
	}
	return out
}
