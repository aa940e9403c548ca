package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Las lecturas devuelven (nil, nil) cuando la empresa no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByCUIT(ctx context.Context, cuit string) (*entity.Company, error)
	// First devuelve la empresa más antigua (fallback del modo demo).
	First(ctx context.Context) (*entity.Company, error)
	// GetForUpdate bloquea la fila de la empresa hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}
