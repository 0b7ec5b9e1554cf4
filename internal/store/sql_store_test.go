package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazlouski/adwatch/internal/config"
	"github.com/mkazlouski/adwatch/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitializeLogger(&config.Config{LogLevel: "ERROR", LogFormat: "text"})
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) (*SQLStore, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "adwatch_test.db")
	s, err := NewSQLStore("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dsn
}

func TestNewSQLStore_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLStore("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestTargetRegistry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id1, err := s.AddTarget(ctx, "https://example.test/l/minsk?query=sofa")
	require.NoError(t, err)
	id2, err := s.AddTarget(ctx, "https://example.test/l/minsk?query=chair")
	require.NoError(t, err)
	id3, err := s.AddTarget(ctx, "https://example.test/l/brest?query=table")
	require.NoError(t, err)

	targets, err := s.ListTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, []Target{
		{ID: id1, URL: "https://example.test/l/minsk?query=sofa"},
		{ID: id2, URL: "https://example.test/l/minsk?query=chair"},
		{ID: id3, URL: "https://example.test/l/brest?query=table"},
	}, targets)

	// Removing the middle target must not renumber the survivors.
	require.NoError(t, s.RemoveTarget(ctx, id2))

	targets, err = s.ListTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, id1, targets[0].ID)
	assert.Equal(t, id3, targets[1].ID)

	// A second remove of the same id reports NotFound, not a silent no-op.
	err = s.RemoveTarget(ctx, id2)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	err = s.RemoveTarget(ctx, 9999)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestListTargets_Empty(t *testing.T) {
	s, _ := newTestStore(t)

	targets, err := s.ListTargets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestMarkSeen_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.MarkSeen(ctx, "1001", "https://example.test/vi/1001", now))

	// Every subsequent attempt for the same id must report AlreadySeen.
	for i := 0; i < 5; i++ {
		err := s.MarkSeen(ctx, "1001", "https://example.test/vi/1001", now)
		assert.ErrorIs(t, err, ErrAlreadySeen)
	}

	// Other ids are unaffected.
	require.NoError(t, s.MarkSeen(ctx, "1002", "https://example.test/vi/1002", now))
}

func TestMarkSeen_SurvivesReopen(t *testing.T) {
	s, dsn := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.MarkSeen(ctx, "7001", "https://example.test/vi/7001", time.Now()))
	require.NoError(t, s.Close())

	reopened, err := NewSQLStore("sqlite3", dsn)
	require.NoError(t, err)
	defer reopened.Close()

	err = reopened.MarkSeen(ctx, "7001", "https://example.test/vi/7001", time.Now())
	assert.ErrorIs(t, err, ErrAlreadySeen)
}
