package ports

import (
	"context"
	"time"
)

// IdempotencyStore define el puerto de salida para marcar solicitudes en curso.
// Los adaptadores (Redis, memoria) deben garantizar que Acquire sea atómico:
// de dos llamadas concurrentes con la misma clave, solo una devuelve true.
type IdempotencyStore interface {
	// Acquire marca la clave durante ttl. Devuelve false si ya estaba marcada.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera la marca al terminar la solicitud (con éxito o error).
	Release(ctx context.Context, key string) error
}
