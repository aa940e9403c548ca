// Package idempotency marca como "en proceso" las altas que traen Idempotency-Key,
// para que un doble envío concurrente no cree dos registros.
package idempotency

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/mostrador-api/internal/application/ports"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// Guard envuelve el IdempotencyStore. Un Guard nil no marca nada.
type Guard struct {
	store ports.IdempotencyStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewGuard construye el guard. ttl acota cuánto puede quedar tomada una clave si el proceso muere.
func NewGuard(store ports.IdempotencyStore, ttl time.Duration, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{store: store, ttl: ttl, log: log.WithComponent("idempotencia")}
}

// Key arma la clave del store: scope:empresa:clave.
func Key(scope, companyID, key string) string {
	return strings.Join([]string{scope, companyID, key}, ":")
}

// Acquire toma la clave. Devuelve domain.ErrRequestInProgress si otra solicitud la tiene.
// Si el store falla se continúa sin marca: la unicidad en base sigue evitando duplicados.
func (g *Guard) Acquire(ctx context.Context, scope, companyID, key string) (release func(), err error) {
	noop := func() {}
	if g == nil || g.store == nil || key == "" {
		return noop, nil
	}
	k := Key(scope, companyID, key)
	ok, err := g.store.Acquire(ctx, k, g.ttl)
	if err != nil {
		g.log.Warn().Err(err).Str("key", k).Msg("store de idempotencia no disponible")
		return noop, nil
	}
	if !ok {
		return nil, domain.ErrRequestInProgress
	}
	return func() {
		if err := g.store.Release(context.WithoutCancel(ctx), k); err != nil {
			g.log.Warn().Err(err).Str("key", k).Msg("no se pudo liberar la clave")
		}
	}, nil
}
