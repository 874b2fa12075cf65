// Package jsonl encodes and decodes the record and chunk streams, one JSON
// object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/m2docs/pkg/types"
)

// maxLineSize bounds a single decoded line; chunk text can be long
const maxLineSize = 16 * 1024 * 1024

// Writer writes JSON lines to an underlying writer
type Writer struct {
	w     *bufio.Writer
	enc   *json.Encoder
	count int
}

// NewWriter creates a Writer. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Writer{w: bw, enc: enc}
}

// WriteEntry writes one record line
func (w *Writer) WriteEntry(entry types.Entry) error {
	entry.FillDefaults()
	return w.write(entry)
}

// WriteChunk writes one chunk line
func (w *Writer) WriteChunk(chunk types.Chunk) error {
	return w.write(chunk)
}

func (w *Writer) write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode line %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// Count returns the number of lines written
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteEntries writes all entries and flushes
func WriteEntries(w io.Writer, entries []types.Entry) error {
	jw := NewWriter(w)
	for _, e := range entries {
		if err := jw.WriteEntry(e); err != nil {
			return err
		}
	}
	return jw.Flush()
}

// WriteChunks writes all chunks and flushes
func WriteChunks(w io.Writer, chunks []types.Chunk) error {
	jw := NewWriter(w)
	for _, c := range chunks {
		if err := jw.WriteChunk(c); err != nil {
			return err
		}
	}
	return jw.Flush()
}

// ReadEntries decodes a record stream
func ReadEntries(r io.Reader) ([]types.Entry, error) {
	return readLines(r, func(e *types.Entry) { e.FillDefaults() })
}

// ReadChunks decodes a chunk stream
func ReadChunks(r io.Reader) ([]types.Chunk, error) {
	return readLines[types.Chunk](r, nil)
}

// readLines decodes one value per non-empty line
func readLines[T any](r io.Reader, fixup func(*T)) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var out []T
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if fixup != nil {
			fixup(&v)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	return out, nil
}
