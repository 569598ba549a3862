// internal/cache/redis_test.go
package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/common/logger"
)

func newMiniredisStore(t *testing.T) *RedisStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore_SetGet(t *testing.T) {
	store := newMiniredisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))

	value, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), value)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "redis.Nil must map to a plain miss")
}

func TestRedisStore_DeletePrefix(t *testing.T) {
	store := newMiniredisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "applications:list", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "applications:list?page=2", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "jobs:list", []byte("c"), time.Minute))

	removed, err := store.DeletePrefix(ctx, "applications:list")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok, err := store.Get(ctx, "jobs:list")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("k1").SetErr(errors.New("connection reset"))

	_, ok, err := store.Get(ctx, "k1")
	assert.False(t, ok)
	require.Error(t, err, "transport errors must surface, not read as a miss")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetNilIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("absent").RedisNil()

	_, ok, err := store.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectSet("k1", []byte("v1"), time.Minute).SetErr(errors.New("readonly replica"))

	err := store.Set(ctx, "k1", []byte("v1"), time.Minute)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_BehindCache(t *testing.T) {
	store := newMiniredisStore(t)
	c := New(store, logger.NewTestLogger(t))
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`[1,2,3]`), nil
	}

	_, fromCache, err := c.Fetch(ctx, "candidates:list", time.Minute, fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)

	_, fromCache, err = c.Fetch(ctx, "candidates:list", time.Minute, fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, 1, calls)

	c.Invalidate(ctx, "candidates:list")

	_, fromCache, err = c.Fetch(ctx, "candidates:list", time.Minute, fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, calls)
}
