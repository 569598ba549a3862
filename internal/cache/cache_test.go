// internal/cache/cache_test.go
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/common/logger"
)

func newTestCache(t *testing.T) *Cache {
	c := New(NewMemoryStore(), logger.NewTestLogger(t))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_Fetch_MissThenHit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{"n":1}`), nil
	}

	value, fromCache, err := c.Fetch(ctx, "applications:list", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []byte(`{"n":1}`), value)

	value, fromCache, err = c.Fetch(ctx, "applications:list", time.Minute, fn)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, []byte(`{"n":1}`), value)
	assert.Equal(t, 1, calls, "second read must be served from cache")
}

func TestCache_Fetch_ErrorNotCached(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("backend down")
		}
		return []byte("ok"), nil
	}

	_, _, err := c.Fetch(ctx, "k", time.Minute, fn)
	require.Error(t, err)

	value, fromCache, err := c.Fetch(ctx, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, []byte("ok"), value)
	assert.Equal(t, 2, calls)
}

func TestCache_Fetch_DeduplicatesConcurrentCallers(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fn := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("shared"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = c.Fetch(ctx, "hot-key", time.Minute, fn)
		}(i)
	}

	// Let every caller reach the in-flight gate before the fetch resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers must share one fetch")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared"), results[i])
	}
}

func TestCache_Fetch_WaiterHonorsContext(t *testing.T) {
	c := newTestCache(t)

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	go func() {
		c.Fetch(context.Background(), "slow-key", time.Minute, func(ctx context.Context) ([]byte, error) {
			close(started)
			<-release
			return []byte("late"), nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := c.Fetch(ctx, "slow-key", time.Minute, func(ctx context.Context) ([]byte, error) {
		t.Fatal("waiter must not start its own fetch")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCache_Invalidate_RemovesAndPublishesInOrder(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"applications:list", "applications:detail/a1", "applications:status-history/a1"} {
		_, _, err := c.Fetch(ctx, key, time.Minute, func(ctx context.Context) ([]byte, error) {
			return []byte("x"), nil
		})
		require.NoError(t, err)
	}

	subID, events := c.Bus().Subscribe()
	defer c.Bus().Unsubscribe(subID)

	c.Invalidate(ctx, "applications:list", "applications:detail/a1", "applications:status-history/a1")

	expected := []string{"applications:list", "applications:detail/a1", "applications:status-history/a1"}
	for _, prefix := range expected {
		select {
		case e := <-events:
			assert.Equal(t, prefix, e.Prefix, "events must arrive in program order")
		case <-time.After(time.Second):
			t.Fatalf("no event received for prefix %s", prefix)
		}
	}

	// All three keys must now miss.
	calls := 0
	for _, key := range expected {
		_, fromCache, err := c.Fetch(ctx, key, time.Minute, func(ctx context.Context) ([]byte, error) {
			calls++
			return []byte("y"), nil
		})
		require.NoError(t, err)
		assert.False(t, fromCache)
	}
	assert.Equal(t, 3, calls)
}

func TestBus_SubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()

	id1, ch1 := bus.Subscribe()
	id2, ch2 := bus.Subscribe()
	assert.NotEqual(t, id1, id2)

	bus.Publish(Event{Prefix: "jobs:list"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			assert.Equal(t, "jobs:list", e.Prefix)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	bus.Unsubscribe(id1)
	_, open := <-ch1
	assert.False(t, open, "unsubscribed channel must be closed")

	// Publishing after one unsubscribe still reaches the rest.
	bus.Publish(Event{Prefix: "candidates:list"})
	select {
	case e := <-ch2:
		assert.Equal(t, "candidates:list", e.Prefix)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive event")
	}
}
