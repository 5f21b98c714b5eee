package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMemoization(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`[{"query_vin":"V1","time_stamp":"2024-01-01T00:00:00"}]`), 0644))

	store := NewStore(NewLoader(nil))
	loads := 0
	store.OnLoad(func() { loads++ })

	first, err := store.Get(context.Background(), []string{path})
	require.NoError(t, err)
	second, err := store.Get(context.Background(), []string{path})
	require.NoError(t, err)

	// Same selection returns the cached catalog without touching disk.
	assert.Same(t, first, second)
	assert.Equal(t, 1, loads)
}

func TestStoreKeyIgnoresPathOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(b, []byte(`[]`), 0644))

	store := NewStore(NewLoader(nil))
	first, err := store.Get(context.Background(), []string{a, b})
	require.NoError(t, err)
	second, err := store.Get(context.Background(), []string{b, a})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestStoreInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`[{"query_vin":"V1","time_stamp":"2024-01-01T00:00:00"}]`), 0644))

	store := NewStore(NewLoader(nil))
	first, err := store.Get(context.Background(), []string{path})
	require.NoError(t, err)

	// New content is only visible after an explicit invalidation.
	require.NoError(t, os.WriteFile(path, []byte(
		`[{"query_vin":"V1","time_stamp":"2024-01-01T00:00:00"},
		  {"query_vin":"V2","time_stamp":"2024-01-02T00:00:00"}]`), 0644))

	stale, err := store.Get(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Same(t, first, stale)

	store.Invalidate()
	fresh, err := store.Get(context.Background(), []string{path})
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Len(t, fresh.Records, 2)
}
