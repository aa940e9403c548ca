package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisContainer(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con Redis omitida en modo -short")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("no se pudo iniciar Redis (¿Docker disponible?): %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisStore_AcquireRelease(t *testing.T) {
	addr := newRedisContainer(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Acquire(ctx, "ventas:co-1:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acquire(ctx, "ventas:co-1:abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "ventas:co-1:abc"))
	ok, err = store.Acquire(ctx, "ventas:co-1:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_TTL(t *testing.T) {
	addr := newRedisContainer(t)
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStoreWithClient(client, "test:")
	defer store.Close()

	ok, err := store.Acquire(ctx, "k", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ttl, err := client.TTL(ctx, "test:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Second)
}

func TestNewStore_UsaRedisSiResponde(t *testing.T) {
	addr := newRedisContainer(t)
	store := NewStore(context.Background(), RedisConfig{Addr: addr}, nil)
	defer store.Close()
	_, ok := store.(*RedisStore)
	assert.True(t, ok)
}

func TestNewStore_RedisCaidoUsaMemoria(t *testing.T) {
	if testing.Short() {
		t.Skip("espera el timeout de conexión")
	}
	store := NewStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"}, nil)
	defer store.Close()
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}
