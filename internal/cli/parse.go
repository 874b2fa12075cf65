package cli

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/dshills/m2docs/internal/extractor"
	"github.com/dshills/m2docs/internal/jsonl"
	"github.com/dshills/m2docs/internal/normalizer"
	"github.com/dshills/m2docs/pkg/types"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract the documentation records of one file and print them as JSONL",
	Long: `Parse reads a single file (or stdin when no file or "-" is given) and
writes one canonical record per documentation block to stdout.

Example:
  m2docs parse Macaulay2/packages/Foo.m2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	file, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	return parseTo(cmd.OutOrStdout(), extractor.New(nil), file)
}

// parseTo writes the record stream of file to w, logging diagnostics
func parseTo(w io.Writer, x *extractor.Extractor, file types.RawFile) error {
	var warnings normalizer.Warnings
	entries, parseErrors := x.ExtractFile(file, &warnings)
	for _, pe := range parseErrors {
		log.Printf("Parse error in %s: %s", pe.File, pe.Message)
	}
	return jsonl.WriteEntries(w, entries)
}
