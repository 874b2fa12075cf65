// Package storage provides an optional SQLite sink for extraction output.
//
// Each extraction is recorded as a run. The record and chunk streams of a
// run are stored row by row, in stream order, so they can be listed and
// filtered after the JSONL files have been written.
//
// # Database Schema
//
// Tables:
//   - runs: One row per extraction (root, status, counters, timestamps)
//   - entries: Record stream; keys and seealso stored as JSON arrays
//   - chunks: Chunk stream
//   - schema_version: Applied migrations
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore(ctx, "data/m2docs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	run, err := store.CreateRun(ctx, "/path/to/Macaulay2/packages")
//	err = store.SaveEntries(ctx, run.ID, result.Entries)
//	err = store.SaveChunks(ctx, run.ID, result.Chunks)
//
//	run.Entries = len(result.Entries)
//	err = store.FinishRun(ctx, run)
//
//	docs, err := store.ListEntries(ctx, storage.EntryFilter{
//	    RunID:  run.ID,
//	    Syntax: types.SyntaxDocument,
//	})
//
// # Build Modes
//
// The default build uses the pure Go driver modernc.org/sqlite. Building
// with the sqlite_cgo tag switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...
//
// BuildMode reports which driver was compiled in.
//
// # Migrations
//
// Schema changes are listed in AllMigrations and applied in semantic
// version order when a store is opened. RollbackMigration undoes the most
// recent one.
package storage
