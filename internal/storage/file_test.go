package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	kv, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "a", `[{"id":1}]`))
	require.NoError(t, kv.Set(ctx, "b", "a much longer value that will be removed"))
	require.NoError(t, kv.Remove(ctx, "b"))
	require.NoError(t, kv.Close())

	kv, err = OpenFile(path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)

	_, ok, err = kv.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_MovesCorruptFileAside(t *testing.T) {
	ctx := context.Background()
	for name, body := range map[string]string{
		"syntax":    "{not json",
		"truncated": `{"app_offers_v1": "[`,
		"wrong":     `["a", "b"]`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "store.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			kv, err := OpenFile(path)
			require.NoError(t, err)
			defer kv.Close()

			_, ok, err := kv.Get(ctx, "app_offers_v1")
			require.NoError(t, err)
			assert.False(t, ok)
			require.NoError(t, kv.Set(ctx, "k", "v"))

			aside, err := filepath.Glob(path + ".corrupt-*")
			require.NoError(t, err)
			require.Len(t, aside, 1)
			kept, err := os.ReadFile(aside[0])
			require.NoError(t, err)
			assert.Equal(t, body, string(kept))
		})
	}
}

func TestFile_UnreadableDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.Mkdir(path, 0o700))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFile_CanceledContext(t *testing.T) {
	kv, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer kv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), context.Canceled)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	v, ok, _ := kv.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, kv.Remove(ctx, "k"))
	_, ok, _ = kv.Get(ctx, "k")
	assert.False(t, ok)
}
