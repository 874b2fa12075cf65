// Package reader walks a corpus directory and loads Macaulay2 source files.
package reader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/dshills/m2docs/pkg/types"
)

// DefaultExtensions are the file extensions read when none are configured
var DefaultExtensions = []string{".m2"}

// Config controls which files the reader loads
type Config struct {
	Extensions []string // File extensions to include (default: .m2)
	Ignore     []string // Glob patterns relative to the root, e.g. "tests/**"
}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Reader loads source files beneath a root directory
type Reader struct {
	extensions []string
	ignore     []compiledPattern
}

// New creates a Reader. A nil config reads every .m2 file.
func New(config *Config) (*Reader, error) {
	r := &Reader{extensions: DefaultExtensions}
	if config == nil {
		return r, nil
	}

	if len(config.Extensions) > 0 {
		r.extensions = config.Extensions
	}

	for _, pattern := range config.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		r.ignore = append(r.ignore, compiledPattern{pattern: pattern, glob: g})
	}

	return r, nil
}

// Read returns every matching file under root, sorted by relative path.
// Files that cannot be read are skipped and described in the returned
// warnings; only a failure to walk root itself is returned as an error.
func (r *Reader) Read(ctx context.Context, root string) ([]types.RawFile, []string, error) {
	paths, err := r.discover(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	files := make([]types.RawFile, 0, len(paths))
	var warnings []string
	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not read %s: %v", relPath, err))
			continue
		}

		files = append(files, types.RawFile{
			Path:    relPath,
			Content: strings.ToValidUTF8(string(content), ""),
		})
	}

	return files, warnings, nil
}

// discover walks root and returns slash-separated relative paths of matching files
func (r *Reader) discover(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped rather than aborting the walk
			if path != root && d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			if path != root {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == root {
				return nil
			}
			// Skip hidden directories
			if strings.HasPrefix(d.Name(), ".") || r.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.hasExtension(relPath) || r.shouldIgnore(relPath) {
			return nil
		}

		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func (r *Reader) hasExtension(path string) bool {
	for _, ext := range r.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// shouldIgnore checks a path against the ignore patterns. Directories also
// match patterns written with a /** suffix.
func (r *Reader) shouldIgnore(relPath string) bool {
	for _, cp := range r.ignore {
		if cp.glob.Match(relPath) || cp.glob.Match(relPath+"/**") {
			return true
		}
	}
	return false
}
