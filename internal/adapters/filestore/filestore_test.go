package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	v, ok, err := s.Get(context.Background(), "token")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	require.NoError(t, s.Set(ctx, "user", `{"id":"u1"}`))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	v, ok, err = s.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestStore_OverwriteAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	require.NoError(t, s.Set(ctx, "token", "def"))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Delete(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	require.NoError(t, s.Delete(ctx, "token"))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	first := New(path)
	require.NoError(t, first.Set(ctx, "token", "abc"))

	second := New(path)
	v, ok, err := second.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestStore_FilePermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := New(path)

	require.NoError(t, s.Set(ctx, "token", "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_CorruptFileSurfacesStorageFault(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	s := New(path)
	_, _, err := s.Get(ctx, "token")
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(ctx, "token")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "token", "abc"), context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "token"), context.Canceled)
}
