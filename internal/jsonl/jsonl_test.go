package jsonl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/m2docs/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRoundTrip(t *testing.T) {
	entries := []types.Entry{
		{
			Keys:        []string{"Ideal", "ideal"},
			Headline:    "ideals of rings",
			Usage:       "ideal(ring elements)",
			Description: "An ideal is a collection.",
			Examples:    "I = ideal(x^2, y)",
			SeeAlso:     []string{"Ring"},
			Source:      "packages/ideals.m2",
			Syntax:      types.SyntaxDoc,
		},
		{
			Keys:    []string{},
			SeeAlso: []string{},
			Source:  "x.m2",
			Syntax:  types.SyntaxDocument,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWriteEntry_EmptyListsEncodeAsArrays(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteEntry(types.Entry{Source: "a.m2", Syntax: types.SyntaxDoc}))
	require.NoError(t, w.Flush())

	line := buf.String()
	assert.Contains(t, line, `"keys":[]`)
	assert.Contains(t, line, `"seealso":[]`)
	assert.Contains(t, line, `"syntax":"doc"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, w.Count())
}

func TestWriteEntry_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []types.Entry{{Usage: "f(x) => y < z & w", Source: "a.m2", Syntax: types.SyntaxDoc}}))
	assert.Contains(t, buf.String(), "f(x) => y < z & w")
}

func TestChunkRoundTrip(t *testing.T) {
	chunks := []types.Chunk{
		{Text: "a b c", Source: "a.m2", ChunkID: 0, TokenStart: 0, TokenEnd: 3},
		{Text: "c d", Source: "a.m2", ChunkID: 1, TokenStart: 2, TokenEnd: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChunks(&buf, chunks))
	assert.Contains(t, buf.String(), `"chunk_id":1`)
	assert.Contains(t, buf.String(), `"token_start":2`)

	got, err := ReadChunks(&buf)
	require.NoError(t, err)
	assert.Equal(t, chunks, got)
}

func TestReadEntries_SkipsBlankLinesAndFillsDefaults(t *testing.T) {
	input := "\n{\"headline\":\"h\",\"source\":\"a.m2\",\"syntax\":\"doc\"}\n\n"
	got, err := ReadEntries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{}, got[0].Keys)
	assert.Equal(t, []string{}, got[0].SeeAlso)
}

func TestReadChunks_BadLine(t *testing.T) {
	_, err := ReadChunks(strings.NewReader("{\"text\":\"a\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
