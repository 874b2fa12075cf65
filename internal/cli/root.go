package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/m2docs/internal/config"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "m2docs",
	Short: "Extract Macaulay2 documentation into JSONL",
	Long: `m2docs reads Macaulay2 package sources, extracts every doc /// ... ///
and document { ... } block into a canonical record, and splits the raw
sources into overlapping token chunks.

Both streams are written as JSON Lines. Configuration is read from
.m2docs.yaml in the working directory and M2DOCS_* environment variables;
command-line flags take precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// stdout carries JSONL and MCP traffic
		log.SetOutput(os.Stderr)
		if !verbose {
			log.SetFlags(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.m2docs.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// loadConfig loads the configuration and applies flags set on cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	loader := config.NewLoader(wd)
	if cfgFile != "" {
		loader = loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if verbose {
		log.Printf("Config: root=%s max_tokens=%d overlap=%d workers=%d",
			cfg.Paths.Root, cfg.Chunking.MaxTokens, cfg.Chunking.Overlap, cfg.Extract.Workers)
	}
	return cfg, nil
}
