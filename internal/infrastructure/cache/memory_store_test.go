package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Acquire(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	t.Run("toma una clave nueva", func(t *testing.T) {
		ok, err := store.Acquire(ctx, "k-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rechaza una clave tomada", func(t *testing.T) {
		ok, err := store.Acquire(ctx, "k-2", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Acquire(ctx, "k-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("libera y vuelve a tomar", func(t *testing.T) {
		ok, err := store.Acquire(ctx, "k-3", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, store.Release(ctx, "k-3"))

		ok, err = store.Acquire(ctx, "k-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryStore_Vencimiento(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ok, err := store.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = store.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "una marca vencida se puede volver a tomar")

	_, err = store.Acquire(ctx, "otra", time.Minute)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	store.cleanup()
	assert.Equal(t, 0, store.Size())
}

func TestMemoryStore_AcquireConcurrente(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Acquire(context.Background(), "misma", time.Hour)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryStore_CloseIdempotente(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewStore_SinRedisUsaMemoria(t *testing.T) {
	store := NewStore(context.Background(), RedisConfig{}, nil)
	defer store.Close()
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}
