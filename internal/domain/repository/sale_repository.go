package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus ítems.
type SaleRepository interface {
	// Create persiste cabecera e ítems. Devuelve domain.ErrDuplicate si la
	// Idempotency-Key ya fue usada por la empresa.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con ítems (y datos de producto) o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Sale, error)
	// ListByCompany devuelve cabeceras, más recientes primero.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error)
	// TransitionStatus cambia el estado solo si el actual es from; si no, domain.ErrConflict.
	TransitionStatus(ctx context.Context, id, from, to string) error
}
