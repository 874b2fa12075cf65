package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dshills/m2docs/pkg/types"
)

var (
	// ErrNotFound is returned when a requested run doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrRunFinished is returned when writing to a run that is no longer running
	ErrRunFinished = errors.New("run already finished")
)

var (
	runColumns   = []string{"id", "root", "status", "files", "entries", "chunks", "warnings", "parse_errors", "started_at", "finished_at"}
	entryColumns = []string{"keys", "headline", "usage", "description", "examples", "seealso", "source", "syntax"}
	chunkColumns = []string{"text", "source", "chunk_id", "token_start", "token_end"}
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single writer; also keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// pending migrations
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Run operations

// CreateRun starts a new run over root
func (s *SQLiteStore) CreateRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := sq.Insert("runs").
		Columns("id", "root", "status", "started_at").
		Values(run.ID, run.Root, run.Status, run.StartedAt).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun records the final counters and status of run. An empty status
// is stored as complete.
func (s *SQLiteStore) FinishRun(ctx context.Context, run *Run) error {
	if run.Status == "" || run.Status == RunStatusRunning {
		run.Status = RunStatusComplete
	}
	run.FinishedAt = time.Now().UTC()

	result, err := sq.Update("runs").
		SetMap(sq.Eq{
			"status":       run.Status,
			"files":        run.Files,
			"entries":      run.Entries,
			"chunks":       run.Chunks,
			"warnings":     run.Warnings,
			"parse_errors": run.ParseErrors,
			"finished_at":  run.FinishedAt,
		}).
		Where(sq.Eq{"id": run.ID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// GetRun returns the run with the given ID
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	return s.queryRun(ctx, sq.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}))
}

// LatestRun returns the most recently started run
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	return s.queryRun(ctx, sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "rowid DESC").Limit(1))
}

func (s *SQLiteStore) queryRun(ctx context.Context, builder sq.SelectBuilder) (*Run, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build run query: %w", err)
	}

	var run Run
	var finishedAt sql.NullTime
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID, &run.Root, &run.Status, &run.Files, &run.Entries, &run.Chunks,
		&run.Warnings, &run.ParseErrors, &run.StartedAt, &finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

// requireRunning checks that runID exists and is still accepting writes
func requireRunning(ctx context.Context, tx *sql.Tx, runID string) error {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM runs WHERE id = ?", runID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if status != RunStatusRunning {
		return fmt.Errorf("run %s: %w", runID, ErrRunFinished)
	}
	return nil
}

// Stream operations

// SaveEntries appends entries to the record stream of a running run.
// All entries are written in one transaction.
func (s *SQLiteStore) SaveEntries(ctx context.Context, runID string, entries []types.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = requireRunning(ctx, tx, runID); err != nil {
		return err
	}
	next, err := nextPosition(ctx, tx, "entries", runID)
	if err != nil {
		return err
	}

	for i, e := range entries {
		e.FillDefaults()
		keys, err := json.Marshal(e.Keys)
		if err != nil {
			return fmt.Errorf("failed to encode keys: %w", err)
		}
		seeAlso, err := json.Marshal(e.SeeAlso)
		if err != nil {
			return fmt.Errorf("failed to encode seealso: %w", err)
		}

		_, err = sq.Insert("entries").
			Columns(append([]string{"run_id", "position"}, entryColumns...)...).
			Values(runID, next+i, string(keys), e.Headline, e.Usage, e.Description,
				e.Examples, string(seeAlso), e.Source, string(e.Syntax)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert entry %d from %s: %w", i, e.Source, err)
		}
	}

	return tx.Commit()
}

// SaveChunks appends chunks to the chunk stream of a running run
func (s *SQLiteStore) SaveChunks(ctx context.Context, runID string, chunks []types.Chunk) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = requireRunning(ctx, tx, runID); err != nil {
		return err
	}
	next, err := nextPosition(ctx, tx, "chunks", runID)
	if err != nil {
		return err
	}

	for i, c := range chunks {
		_, err = sq.Insert("chunks").
			Columns(append([]string{"run_id", "position"}, chunkColumns...)...).
			Values(runID, next+i, c.Text, c.Source, c.ChunkID, c.TokenStart, c.TokenEnd).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", c.ChunkID, c.Source, err)
		}
	}

	return tx.Commit()
}

// nextPosition returns the stream position after the last stored row of runID
func nextPosition(ctx context.Context, tx *sql.Tx, table, runID string) (int, error) {
	query, args, err := sq.Select("COALESCE(MAX(position) + 1, 0)").
		From(table).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var next int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read %s position: %w", table, err)
	}
	return next, nil
}

// ListEntries returns stored entries in stream order
func (s *SQLiteStore) ListEntries(ctx context.Context, filter EntryFilter) ([]types.Entry, error) {
	builder := sq.Select(entryColumns...).From("entries").OrderBy("run_id", "position")
	if filter.RunID != "" {
		builder = builder.Where(sq.Eq{"run_id": filter.RunID})
	}
	if filter.Source != "" {
		builder = builder.Where(sq.Eq{"source": filter.Source})
	}
	if filter.Syntax != "" {
		builder = builder.Where(sq.Eq{"syntax": string(filter.Syntax)})
	}
	if filter.Key != "" {
		quoted, err := json.Marshal(filter.Key)
		if err != nil {
			return nil, err
		}
		// Coarse match on the JSON array; exact match is checked below
		builder = builder.Where(sq.Like{"keys": "%" + string(quoted) + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entry query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		var keys, seeAlso, syntax string
		if err := rows.Scan(&keys, &e.Headline, &e.Usage, &e.Description,
			&e.Examples, &seeAlso, &e.Source, &syntax); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keys), &e.Keys); err != nil {
			return nil, fmt.Errorf("failed to decode keys: %w", err)
		}
		if err := json.Unmarshal([]byte(seeAlso), &e.SeeAlso); err != nil {
			return nil, fmt.Errorf("failed to decode seealso: %w", err)
		}
		e.Syntax = types.Syntax(syntax)
		e.FillDefaults()

		if filter.Key != "" && !slices.Contains(e.Keys, filter.Key) {
			continue
		}
		entries = append(entries, e)
		if filter.Limit > 0 && len(entries) >= filter.Limit {
			break
		}
	}
	return entries, rows.Err()
}

// ListChunks returns stored chunks in stream order
func (s *SQLiteStore) ListChunks(ctx context.Context, filter ChunkFilter) ([]types.Chunk, error) {
	builder := sq.Select(chunkColumns...).From("chunks").OrderBy("run_id", "position")
	if filter.RunID != "" {
		builder = builder.Where(sq.Eq{"run_id": filter.RunID})
	}
	if filter.Source != "" {
		builder = builder.Where(sq.Eq{"source": filter.Source})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build chunk query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	chunks := []types.Chunk{}
	for rows.Next() {
		var c types.Chunk
		if err := rows.Scan(&c.Text, &c.Source, &c.ChunkID, &c.TokenStart, &c.TokenEnd); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
