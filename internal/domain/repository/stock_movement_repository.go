package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// StockMovementRepository libro de movimientos (solo alta y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos más recientes primero.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
