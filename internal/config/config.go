// Package config loads m2docs settings from defaults, an optional
// .m2docs.yaml file and M2DOCS_* environment variables.
package config

import (
	"runtime"

	"github.com/dshills/m2docs/internal/chunker"
	"github.com/dshills/m2docs/internal/extractor"
)

// Config represents the complete m2docs configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Chunking ChunkingConfig `yaml:"chunking" mapstructure:"chunking"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which files are read
type PathsConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`             // Corpus directory
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // e.g. [".m2"]
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns, relative to root
}

// ChunkingConfig defines the token windows of the chunk stream
type ChunkingConfig struct {
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	Overlap   int `yaml:"overlap" mapstructure:"overlap"`
}

// ExtractConfig tunes the extraction pipeline
type ExtractConfig struct {
	Workers   int `yaml:"workers" mapstructure:"workers"`
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"` // parsed files kept in memory
}

// OutputConfig names the JSONL destinations. "-" writes to stdout.
type OutputConfig struct {
	Docs   string `yaml:"docs" mapstructure:"docs"`
	Chunks string `yaml:"chunks" mapstructure:"chunks"`
}

// StorageConfig enables the SQLite sink when DBPath is set
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:       ".",
			Extensions: []string{".m2"},
			Ignore:     []string{},
		},
		Chunking: ChunkingConfig{
			MaxTokens: chunker.DefaultMaxTokens,
			Overlap:   chunker.DefaultOverlap,
		},
		Extract: ExtractConfig{
			Workers:   runtime.NumCPU(),
			CacheSize: extractor.DefaultCacheSize,
		},
		Output: OutputConfig{
			Docs:   "data/m2_docs.jsonl",
			Chunks: "data/m2_chunks.jsonl",
		},
	}
}

// ExtractorConfig returns the extractor settings of c
func (c *Config) ExtractorConfig() *extractor.Config {
	return &extractor.Config{
		Workers:   c.Extract.Workers,
		MaxTokens: c.Chunking.MaxTokens,
		Overlap:   c.Chunking.Overlap,
	}
}
