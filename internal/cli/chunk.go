package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/m2docs/internal/chunker"
	"github.com/dshills/m2docs/internal/jsonl"
	"github.com/dshills/m2docs/pkg/types"
)

const stdinSource = "<stdin>"

// chunkCmd represents the chunk command
var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Split one file into token chunks and print them as JSONL",
	Long: `Chunk reads a single file (or stdin when no file or "-" is given), splits
it into overlapping whitespace-token windows and writes one JSON object per
chunk to stdout.

Example:
  m2docs chunk Macaulay2/packages/Foo.m2 --max-tokens 100 --overlap 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChunk,
}

func init() {
	addChunkFlags(chunkCmd)
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ch, err := chunker.New(cfg.Chunking.MaxTokens, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	file, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	return chunkTo(cmd.OutOrStdout(), ch, file)
}

// readInput loads the named file, or stdin when args is empty or "-"
func readInput(stdin io.Reader, args []string) (types.RawFile, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return types.RawFile{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return types.RawFile{Path: stdinSource, Content: strings.ToValidUTF8(string(data), "")}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return types.RawFile{}, err
	}
	return types.RawFile{Path: args[0], Content: strings.ToValidUTF8(string(data), "")}, nil
}

// chunkTo writes the chunk stream of file to w
func chunkTo(w io.Writer, ch *chunker.Chunker, file types.RawFile) error {
	chunks, err := ch.ChunkFile(file)
	if err != nil {
		return err
	}
	return jsonl.WriteChunks(w, chunks)
}
