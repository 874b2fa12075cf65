package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/m2docs/internal/chunker"
)

var (
	// ErrEmptyRoot indicates a missing corpus directory
	ErrEmptyRoot = errors.New("empty corpus root")

	// ErrInvalidExtension indicates an extension without a leading dot
	ErrInvalidExtension = errors.New("invalid file extension")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheSize indicates a negative cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrEmptyOutput indicates a missing output destination
	ErrEmptyOutput = errors.New("empty output path")
)

// Validate checks that the configuration is valid and complete. All
// problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Paths.Root) == "" {
		errs = append(errs, ErrEmptyRoot)
	}
	if len(cfg.Paths.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one extension is required", ErrInvalidExtension))
	}
	for _, ext := range cfg.Paths.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("%w: %q must start with '.'", ErrInvalidExtension, ext))
		}
	}

	if err := chunker.ValidateConfig(cfg.Chunking.MaxTokens, cfg.Chunking.Overlap); err != nil {
		errs = append(errs, err)
	}

	if cfg.Extract.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be > 0, got %d", ErrInvalidWorkers, cfg.Extract.Workers))
	}
	if cfg.Extract.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: must be >= 0, got %d", ErrInvalidCacheSize, cfg.Extract.CacheSize))
	}

	if cfg.Output.Docs == "" {
		errs = append(errs, fmt.Errorf("%w: output.docs", ErrEmptyOutput))
	}
	if cfg.Output.Chunks == "" {
		errs = append(errs, fmt.Errorf("%w: output.chunks", ErrEmptyOutput))
	}

	return errors.Join(errs...)
}
