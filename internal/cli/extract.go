package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/m2docs/internal/extractor"
	"github.com/dshills/m2docs/internal/reader"
	"github.com/dshills/m2docs/internal/storage"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [root]",
	Short: "Extract documentation records and chunks from a corpus",
	Long: `Extract walks the corpus directory (default from paths.root), parses every
documentation block into a canonical record and splits each file into
overlapping token chunks.

Outputs:
  data/m2_docs.jsonl    one record per documentation block
  data/m2_chunks.jsonl  one chunk per token window

Example:
  m2docs extract ~/src/M2/Macaulay2/packages --max-tokens 200 --overlap 40`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Paths.Root = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if cfg.Storage.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		s, err := storage.NewSQLiteStore(ctx, cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer s.Close()
		store = s
	}

	progress := newProgressReporter(quiet)
	xcfg := cfg.ExtractorConfig()
	xcfg.OnFileDone = progress.OnFileDone

	x := extractor.New(extractor.NewCache(cfg.Extract.CacheSize))
	result, err := x.ExtractCorpus(ctx, extractor.CorpusOptions{
		Root: cfg.Paths.Root,
		Reader: &reader.Config{
			Extensions: cfg.Paths.Extensions,
			Ignore:     cfg.Paths.Ignore,
		},
		Extract:     xcfg,
		DocsPath:    cfg.Output.Docs,
		ChunksPath:  cfg.Output.Chunks,
		Store:       store,
		OnFilesRead: progress.OnFilesRead,
	})
	if err != nil {
		return err
	}

	progress.OnComplete(result, cfg.Output.Docs, cfg.Output.Chunks)
	return nil
}
