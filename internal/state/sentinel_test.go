package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envguard/internal/hosterr"
)

func TestSentinelToggle_RoundTrip(t *testing.T) {
	prefix := t.TempDir()
	store := NewSentinelStore(".protected")

	flagged, err := store.IsFlagged(prefix)
	require.NoError(t, err)
	assert.False(t, flagged)

	state, err := store.Toggle(prefix)
	require.NoError(t, err)
	assert.True(t, state)
	assert.FileExists(t, filepath.Join(prefix, ".protected"))

	state, err = store.Toggle(prefix)
	require.NoError(t, err)
	assert.False(t, state)
	assert.NoFileExists(t, filepath.Join(prefix, ".protected"))

	// toggle(toggle(E)) restored the original state
	flagged, err = store.IsFlagged(prefix)
	require.NoError(t, err)
	assert.False(t, flagged)
}

func TestSentinelIsFlagged_ReadOnly(t *testing.T) {
	prefix := t.TempDir()
	store := NewSentinelStore(".protected")

	for i := 0; i < 3; i++ {
		flagged, err := store.IsFlagged(prefix)
		require.NoError(t, err)
		assert.False(t, flagged)
	}

	entries, err := os.ReadDir(prefix)
	require.NoError(t, err)
	assert.Empty(t, entries, "reads must not create the marker")
}

func TestSentinelSet_Idempotent(t *testing.T) {
	prefix := t.TempDir()
	store := NewSentinelStore(".protected")

	require.NoError(t, store.Set(prefix))
	require.NoError(t, store.Set(prefix))

	flagged, err := store.IsFlagged(prefix)
	require.NoError(t, err)
	assert.True(t, flagged)
}

func TestSentinelClear_MissingMarker(t *testing.T) {
	prefix := t.TempDir()
	store := NewSentinelStore(".protected")

	err := store.Clear(prefix)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.IOFailure))
}

func TestSentinelSet_MissingEnvironment(t *testing.T) {
	store := NewSentinelStore(".protected")

	err := store.Set(filepath.Join(t.TempDir(), "does", "not", "exist"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.IOFailure))
}

func TestSentinelFlagged_CannotEnumerate(t *testing.T) {
	store := NewSentinelStore(".protected")
	prefixes, err := store.Flagged()
	require.NoError(t, err)
	assert.Nil(t, prefixes)
}
