package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokscraper/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), logger.NewTestLogger())
	require.NoError(t, err)
	return store
}

func TestReadCursorDefaultsToZero(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, int64(0), store.ReadCursor("user_nobody"))
}

func TestWriteThenRead(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteCursor("user_tiktok", 1580000000000))
	assert.Equal(t, int64(1580000000000), store.ReadCursor("user_tiktok"))
	assert.True(t, store.Exists("user_tiktok"))
}

func TestCorruptFileYieldsZero(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, logger.NewTestLogger())
	require.NoError(t, err)

	path := filepath.Join(dir, "user_tiktok.history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.Equal(t, int64(0), store.ReadCursor("user_tiktok"))
}

func TestKeysAreIsolated(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteCursor("user_tiktok", 100))
	require.NoError(t, store.WriteCursor("hashtag_summer", 200))

	assert.Equal(t, int64(100), store.ReadCursor("user_tiktok"))
	assert.Equal(t, int64(200), store.ReadCursor("hashtag_summer"))
}

func TestOverwriteAdvancesCursor(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteCursor("user_tiktok", 100))
	require.NoError(t, store.WriteCursor("user_tiktok", 350))

	assert.Equal(t, int64(350), store.ReadCursor("user_tiktok"))
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteCursor("user_tiktok", 100))
	require.NoError(t, store.Delete("user_tiktok"))
	assert.False(t, store.Exists("user_tiktok"))
	assert.Equal(t, int64(0), store.ReadCursor("user_tiktok"))

	// Deleting a missing record is not an error.
	require.NoError(t, store.Delete("user_tiktok"))
}
