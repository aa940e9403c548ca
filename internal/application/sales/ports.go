package sales

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción que incluye repos de stock y ventas.
// Si fn devuelve error se hace rollback: no queda venta, ítems ni movimiento de stock.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
