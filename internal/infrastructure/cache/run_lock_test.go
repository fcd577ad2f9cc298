package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/backend/internal/infrastructure/config"
)

func TestInMemoryRunLock_TryLock(t *testing.T) {
	lock := NewInMemoryRunLock()
	defer lock.Close()

	ctx := context.Background()

	t.Run("first caller acquires", func(t *testing.T) {
		token, ok, err := lock.TryLock(ctx, "t1:products", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})

	t.Run("second caller is refused while held", func(t *testing.T) {
		_, ok, err := lock.TryLock(ctx, "t1:products", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		_, ok, err := lock.TryLock(ctx, "t1:orders", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lease can be taken over", func(t *testing.T) {
		_, ok, err := lock.TryLock(ctx, "t2:products", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		_, ok, err = lock.TryLock(ctx, "t2:products", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryRunLock_Unlock(t *testing.T) {
	lock := NewInMemoryRunLock()
	defer lock.Close()
	ctx := context.Background()

	token, ok, err := lock.TryLock(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("stale token does not release", func(t *testing.T) {
		require.NoError(t, lock.Unlock(ctx, "k", "someone-else"))
		_, ok, err := lock.TryLock(ctx, "k", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("owner releases", func(t *testing.T) {
		require.NoError(t, lock.Unlock(ctx, "k", token))
		assert.Equal(t, 0, lock.Size())

		_, ok, err := lock.TryLock(ctx, "k", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryRunLock_Concurrent(t *testing.T) {
	lock := NewInMemoryRunLock()
	defer lock.Close()

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := lock.TryLock(context.Background(), "shared", time.Hour); ok {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}

func TestInMemoryRunLock_Cleanup(t *testing.T) {
	lock := NewInMemoryRunLock()
	defer lock.Close()

	_, _, _ = lock.TryLock(context.Background(), "a", time.Millisecond)
	_, _, _ = lock.TryLock(context.Background(), "b", time.Hour)
	time.Sleep(5 * time.Millisecond)

	lock.cleanup()
	assert.Equal(t, 1, lock.Size())
	assert.NoError(t, lock.Close())
	assert.NoError(t, lock.Close())
}

func TestRunLockFactory_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("redis disabled uses in-memory", func(t *testing.T) {
		lock, err := NewRunLockFactory(config.RedisConfig{}).Create(ctx)
		require.NoError(t, err)
		defer lock.Close()
		assert.IsType(t, &InMemoryRunLock{}, lock)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		lock, err := NewRunLockFactory(cfg).Create(ctx)
		require.NoError(t, err)
		defer lock.Close()
		assert.IsType(t, &InMemoryRunLock{}, lock)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		_, err := NewRunLockFactory(cfg, WithInMemoryFallback(false)).Create(ctx)
		assert.Error(t, err)
	})

	t.Run("bad url fails", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, URL: "not-a-url://"}
		_, err := NewRunLockFactory(cfg, WithInMemoryFallback(false)).Create(ctx)
		assert.Error(t, err)
	})
}
