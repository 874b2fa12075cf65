package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/m2docs/internal/config"
)

// Flag names shared by the pipeline commands
const (
	flagMaxTokens = "max-tokens"
	flagOverlap   = "overlap"
	flagWorkers   = "workers"
	flagDocs      = "docs"
	flagChunks    = "chunks"
	flagDB        = "db"
	flagIgnore    = "ignore"
	flagExt       = "ext"
)

// addChunkFlags registers the chunk window flags
func addChunkFlags(cmd *cobra.Command) {
	cmd.Flags().Int(flagMaxTokens, 0, "tokens per chunk (default from config, 200)")
	cmd.Flags().Int(flagOverlap, 0, "tokens shared by consecutive chunks (default from config, 40)")
}

// addExtractFlags registers the flags of the extract command
func addExtractFlags(cmd *cobra.Command) {
	addChunkFlags(cmd)
	cmd.Flags().Int(flagWorkers, 0, "concurrent workers (default: number of CPUs)")
	cmd.Flags().String(flagDocs, "", `record JSONL output ("-" for stdout)`)
	cmd.Flags().String(flagChunks, "", `chunk JSONL output ("-" for stdout)`)
	cmd.Flags().String(flagDB, "", "also store the run in this SQLite database")
	cmd.Flags().StringSlice(flagIgnore, nil, "glob patterns to skip, relative to the root")
	cmd.Flags().StringSlice(flagExt, nil, "file extensions to read (default .m2)")
}

// applyFlags copies every flag explicitly set on cmd into cfg. Flags that
// cmd does not define are ignored.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	var err error
	if changed(flagMaxTokens) {
		if cfg.Chunking.MaxTokens, err = flags.GetInt(flagMaxTokens); err != nil {
			return err
		}
	}
	if changed(flagOverlap) {
		if cfg.Chunking.Overlap, err = flags.GetInt(flagOverlap); err != nil {
			return err
		}
	}
	if changed(flagWorkers) {
		if cfg.Extract.Workers, err = flags.GetInt(flagWorkers); err != nil {
			return err
		}
	}
	if changed(flagDocs) {
		if cfg.Output.Docs, err = flags.GetString(flagDocs); err != nil {
			return err
		}
	}
	if changed(flagChunks) {
		if cfg.Output.Chunks, err = flags.GetString(flagChunks); err != nil {
			return err
		}
	}
	if changed(flagDB) {
		if cfg.Storage.DBPath, err = flags.GetString(flagDB); err != nil {
			return err
		}
	}
	if changed(flagIgnore) {
		if cfg.Paths.Ignore, err = flags.GetStringSlice(flagIgnore); err != nil {
			return err
		}
	}
	if changed(flagExt) {
		if cfg.Paths.Extensions, err = flags.GetStringSlice(flagExt); err != nil {
			return err
		}
	}
	return nil
}
