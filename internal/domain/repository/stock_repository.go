package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository define el puerto para consultar/actualizar la existencia de un producto.
// Las operaciones de escritura se usan dentro de transacciones.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	// Get devuelve (nil, nil) si el producto no tiene fila de stock.
	Get(ctx context.Context, productID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error)
	// SetQuantity fija la existencia (usar con la fila bloqueada).
	SetQuantity(ctx context.Context, productID string, qty decimal.Decimal) error
	// UpdateThresholds cambia mínimo, máximo y ubicación sin tocar la cantidad.
	UpdateThresholds(ctx context.Context, productID string, minQty, maxQty decimal.Decimal, location string) error
	// Decrement resta qty solo si alcanza la existencia y devuelve la nueva cantidad.
	// Devuelve domain.ErrInsufficientStock si no afectó filas.
	Decrement(ctx context.Context, productID string, qty decimal.Decimal) (decimal.Decimal, error)
	// ListByCompany ordena por nombre de producto; lowOnly filtra quantity <= min_quantity.
	ListByCompany(ctx context.Context, companyID string, lowOnly bool) ([]*entity.StockLevel, error)
}
