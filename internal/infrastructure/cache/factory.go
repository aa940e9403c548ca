package cache

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/mostrador-api/internal/application/ports"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// Store IdempotencyStore que además se cierra al apagar la aplicación.
type Store interface {
	ports.IdempotencyStore
	io.Closer
}

// NewStore devuelve Redis si hay dirección configurada y responde; si no, el store en memoria.
func NewStore(ctx context.Context, cfg RedisConfig, log *logger.Logger) Store {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Addr == "" {
		log.Info().Msg("idempotencia: REDIS_ADDR vacío, usando store en memoria")
		return NewMemoryStore(5 * time.Minute)
	}
	store, err := NewRedisStore(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("idempotencia: Redis no disponible, usando store en memoria")
		return NewMemoryStore(5 * time.Minute)
	}
	log.Info().Str("addr", cfg.Addr).Msg("idempotencia: usando Redis")
	return store
}
