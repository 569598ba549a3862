// internal/cache/memory_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))

	value, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), value)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "applications:list", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "applications:list?page=2", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "applications:detail/app-1", []byte("c"), time.Minute))
	require.NoError(t, store.Set(ctx, "jobs:list", []byte("d"), time.Minute))

	removed, err := store.DeletePrefix(ctx, "applications:list")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok, _ := store.Get(ctx, "applications:detail/app-1")
	assert.True(t, ok, "other prefixes must survive")
	_, ok, _ = store.Get(ctx, "jobs:list")
	assert.True(t, ok)
	assert.Equal(t, 2, store.Len())
}
