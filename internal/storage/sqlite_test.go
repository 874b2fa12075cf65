package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dshills/m2docs/pkg/types"
)

type SQLiteStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *SQLiteStore
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := NewSQLiteStore(s.ctx, ":memory:")
	s.Require().NoError(err)
	s.store = store
}

func (s *SQLiteStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func sampleEntries() []types.Entry {
	return []types.Entry{
		{
			Keys:        []string{"foo", "bar"},
			Headline:    "does foo",
			Usage:       "foo x",
			Description: "Foo of x.",
			Examples:    "foo 3",
			SeeAlso:     []string{"baz"},
			Source:      "a.m2",
			Syntax:      types.SyntaxDoc,
		},
		{
			Keys:     []string{"baz"},
			Headline: "does baz",
			Source:   "b.m2",
			Syntax:   types.SyntaxDocument,
		},
		{
			Keys:    []string{"foo_bar"},
			Source:  "b.m2",
			Syntax:  types.SyntaxDocument,
			SeeAlso: []string{},
		},
	}
}

func sampleChunks() []types.Chunk {
	return []types.Chunk{
		{Text: "a b c d e", Source: "a.m2", ChunkID: 0, TokenStart: 0, TokenEnd: 5},
		{Text: "d e f", Source: "a.m2", ChunkID: 1, TokenStart: 3, TokenEnd: 6},
		{Text: "x y", Source: "b.m2", ChunkID: 0, TokenStart: 0, TokenEnd: 2},
	}
}

func (s *SQLiteStoreSuite) TestCreateAndGetRun() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	s.NotEmpty(run.ID)
	s.Equal(RunStatusRunning, run.Status)

	got, err := s.store.GetRun(s.ctx, run.ID)
	s.Require().NoError(err)
	s.Equal(run.ID, got.ID)
	s.Equal("/corpus", got.Root)
	s.Equal(RunStatusRunning, got.Status)
	s.True(got.FinishedAt.IsZero())
}

func (s *SQLiteStoreSuite) TestGetRun_NotFound() {
	_, err := s.store.GetRun(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *SQLiteStoreSuite) TestLatestRun() {
	_, err := s.store.LatestRun(s.ctx)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.store.CreateRun(s.ctx, "/first")
	s.Require().NoError(err)
	second, err := s.store.CreateRun(s.ctx, "/second")
	s.Require().NoError(err)

	latest, err := s.store.LatestRun(s.ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, latest.ID)
}

func (s *SQLiteStoreSuite) TestFinishRun() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)

	run.Files = 2
	run.Entries = 3
	run.Chunks = 4
	run.Warnings = 1
	run.ParseErrors = 1
	s.Require().NoError(s.store.FinishRun(s.ctx, run))
	s.Equal(RunStatusComplete, run.Status)

	got, err := s.store.GetRun(s.ctx, run.ID)
	s.Require().NoError(err)
	s.Equal(RunStatusComplete, got.Status)
	s.Equal(2, got.Files)
	s.Equal(3, got.Entries)
	s.Equal(4, got.Chunks)
	s.Equal(1, got.Warnings)
	s.Equal(1, got.ParseErrors)
	s.False(got.FinishedAt.IsZero())
}

func (s *SQLiteStoreSuite) TestFinishRun_NotFound() {
	err := s.store.FinishRun(s.ctx, &Run{ID: "missing"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *SQLiteStoreSuite) TestEntriesRoundTrip() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveEntries(s.ctx, run.ID, sampleEntries()))

	got, err := s.store.ListEntries(s.ctx, EntryFilter{RunID: run.ID})
	s.Require().NoError(err)

	want := sampleEntries()
	for i := range want {
		want[i].FillDefaults()
	}
	s.Equal(want, got)
}

func (s *SQLiteStoreSuite) TestSaveEntries_AppendsInOrder() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)

	entries := sampleEntries()
	s.Require().NoError(s.store.SaveEntries(s.ctx, run.ID, entries[:1]))
	s.Require().NoError(s.store.SaveEntries(s.ctx, run.ID, entries[1:]))

	got, err := s.store.ListEntries(s.ctx, EntryFilter{RunID: run.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("does foo", got[0].Headline)
	s.Equal("does baz", got[1].Headline)
}

func (s *SQLiteStoreSuite) TestListEntries_Filters() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveEntries(s.ctx, run.ID, sampleEntries()))

	bySource, err := s.store.ListEntries(s.ctx, EntryFilter{Source: "b.m2"})
	s.Require().NoError(err)
	s.Len(bySource, 2)

	bySyntax, err := s.store.ListEntries(s.ctx, EntryFilter{Syntax: types.SyntaxDoc})
	s.Require().NoError(err)
	s.Require().Len(bySyntax, 1)
	s.Equal("a.m2", bySyntax[0].Source)

	byKey, err := s.store.ListEntries(s.ctx, EntryFilter{Key: "baz"})
	s.Require().NoError(err)
	s.Require().Len(byKey, 1, "seealso must not match a key filter")
	s.Equal("does baz", byKey[0].Headline)

	// "_" is a LIKE wildcard; only the exact key matches
	underscore, err := s.store.ListEntries(s.ctx, EntryFilter{Key: "foo_bar"})
	s.Require().NoError(err)
	s.Len(underscore, 1)

	limited, err := s.store.ListEntries(s.ctx, EntryFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(limited, 2)
}

func (s *SQLiteStoreSuite) TestChunksRoundTrip() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveChunks(s.ctx, run.ID, sampleChunks()))

	got, err := s.store.ListChunks(s.ctx, ChunkFilter{RunID: run.ID})
	s.Require().NoError(err)
	s.Equal(sampleChunks(), got)

	bySource, err := s.store.ListChunks(s.ctx, ChunkFilter{RunID: run.ID, Source: "a.m2"})
	s.Require().NoError(err)
	s.Len(bySource, 2)

	limited, err := s.store.ListChunks(s.ctx, ChunkFilter{Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *SQLiteStoreSuite) TestSaveChunks_DuplicateChunkID() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)

	dup := []types.Chunk{
		{Text: "a", Source: "a.m2", ChunkID: 0, TokenStart: 0, TokenEnd: 1},
		{Text: "b", Source: "a.m2", ChunkID: 0, TokenStart: 1, TokenEnd: 2},
	}
	s.Error(s.store.SaveChunks(s.ctx, run.ID, dup))

	// The failed batch is rolled back as a whole
	got, err := s.store.ListChunks(s.ctx, ChunkFilter{RunID: run.ID})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *SQLiteStoreSuite) TestSave_UnknownRun() {
	s.ErrorIs(s.store.SaveEntries(s.ctx, "missing", sampleEntries()), ErrNotFound)
	s.ErrorIs(s.store.SaveChunks(s.ctx, "missing", sampleChunks()), ErrNotFound)
}

func (s *SQLiteStoreSuite) TestSave_FinishedRun() {
	run, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	s.Require().NoError(s.store.FinishRun(s.ctx, run))

	s.ErrorIs(s.store.SaveEntries(s.ctx, run.ID, sampleEntries()), ErrRunFinished)
	s.ErrorIs(s.store.SaveChunks(s.ctx, run.ID, sampleChunks()), ErrRunFinished)
}

func (s *SQLiteStoreSuite) TestRunsAreIsolated() {
	first, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)
	second, err := s.store.CreateRun(s.ctx, "/corpus")
	s.Require().NoError(err)

	s.Require().NoError(s.store.SaveChunks(s.ctx, first.ID, sampleChunks()))
	s.Require().NoError(s.store.SaveChunks(s.ctx, second.ID, sampleChunks()[:1]))

	got, err := s.store.ListChunks(s.ctx, ChunkFilter{RunID: second.ID})
	s.Require().NoError(err)
	s.Len(got, 1)
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ApplyMigrations(ctx, db))
	// Second application is a no-op
	require.NoError(t, ApplyMigrations(ctx, db))

	var version string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)

	require.NoError(t, RollbackMigration(ctx, db))
	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	assert.Error(t, err)
}

func TestBuildMode(t *testing.T) {
	assert.Contains(t, []string{"cgo", "purego"}, BuildMode)
	assert.NotEmpty(t, DriverName)
}
