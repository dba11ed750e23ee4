package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := NewFileTokenStore(t.TempDir())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got, "empty store must read as no token")

	require.NoError(t, store.Save("tok-abc"))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got)

	require.NoError(t, store.Save("tok-def"))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-def", got)
}

func TestFileTokenStoreClear(t *testing.T) {
	store := NewFileTokenStore(t.TempDir())

	require.NoError(t, store.Clear(), "clearing an empty store is a no-op")

	require.NoError(t, store.Save("tok"))
	require.NoError(t, store.Clear())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileTokenStorePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)
	require.NoError(t, store.Save("secret"))

	info, err := os.Stat(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blastline")
	store := NewFileTokenStore(dir)
	require.NoError(t, store.Save("tok"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}
