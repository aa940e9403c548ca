package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/idempotency"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/cache"
)

type failingStore struct{}

func (failingStore) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis caído")
}
func (failingStore) Release(context.Context, string) error { return nil }

func TestGuard_AcquireYRelease(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour)
	defer store.Close()
	g := idempotency.NewGuard(store, time.Minute, nil)
	ctx := context.Background()

	release, err := g.Acquire(ctx, "sale", "c-1", "k-1")
	require.NoError(t, err)

	_, err = g.Acquire(ctx, "sale", "c-1", "k-1")
	assert.ErrorIs(t, err, domain.ErrRequestInProgress)

	// Misma clave en otra empresa u otro alcance no choca.
	r2, err := g.Acquire(ctx, "sale", "c-2", "k-1")
	require.NoError(t, err)
	r2()
	r3, err := g.Acquire(ctx, "document", "c-1", "k-1")
	require.NoError(t, err)
	r3()

	release()
	again, err := g.Acquire(ctx, "sale", "c-1", "k-1")
	require.NoError(t, err)
	again()
}

func TestGuard_SinClaveONil(t *testing.T) {
	var nilGuard *idempotency.Guard
	release, err := nilGuard.Acquire(context.Background(), "sale", "c-1", "k")
	require.NoError(t, err)
	release()

	g := idempotency.NewGuard(cache.NewMemoryStore(time.Hour), time.Minute, nil)
	release, err = g.Acquire(context.Background(), "sale", "c-1", "")
	require.NoError(t, err)
	release()
}

func TestGuard_StoreCaidoNoBloquea(t *testing.T) {
	g := idempotency.NewGuard(failingStore{}, time.Minute, nil)
	release, err := g.Acquire(context.Background(), "sale", "c-1", "k-1")
	require.NoError(t, err)
	release()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "sale:c-1:abc", idempotency.Key("sale", "c-1", "abc"))
}
