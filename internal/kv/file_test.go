package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSetGet(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "jobs", []byte(`[{"id":"1"}]`)))

	got, err := backend.Get(ctx, "jobs")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

func TestFileGetMissingKey(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	_, err = backend.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileOverwrite(t *testing.T) {
	backend, err := NewFile(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "clients", []byte(`[]`)))
	require.NoError(t, backend.Set(ctx, "clients", []byte(`[{"id":"2"}]`)))

	got, err := backend.Get(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"2"}]`, string(got))
}

func TestFileCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	backend, err := NewFile(dir)
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	require.NoError(t, backend.Set(context.Background(), "tiers", []byte(`[]`)))
}
