package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	CompanyID  string
	CategoryID string
	Search     string // coincide con código o nombre
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	// Delete devuelve domain.ErrConflict si el producto figura en ventas.
	Delete(ctx context.Context, id string) error
}
