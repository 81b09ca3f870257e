package blobstore

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello export")
	require.NoError(t, store.Put(ctx, "data/1.json", data))
	data[0] = 'H' // caller mutation must not leak into the store

	blob, err := store.Open(ctx, "data/1.json")
	require.NoError(t, err)
	assert.Equal(t, int64(12), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = blob.ReadAt(ctx, buf, 100)
	assert.ErrorIs(t, err, io.EOF)

	rc, err := blob.ReadRange(ctx, 6, 100)
	require.NoError(t, err)
	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "export", string(rest))

	w, err := store.Create(ctx, "data/2.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "data/")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/1.json", "data/2.json"}, names)

	require.NoError(t, store.Delete(ctx, "data/1.json"))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/2.json"}, names)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := string(rune('a' + i))
			assert.NoError(t, store.Put(ctx, name, []byte(name)))
			_, err := store.List(ctx, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 16)
}

func TestNewReader_Empty(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "empty", nil))

	blob, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	rc, err := NewReader(ctx, blob)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, data)
}
