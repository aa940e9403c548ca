package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// ClientFilter criterios de listado de clientes.
type ClientFilter struct {
	CompanyID string
	Search    string // coincide con nombre o tax id
	Limit     int
	Offset    int
}

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// Delete devuelve domain.ErrConflict si el cliente tiene comprobantes.
	Delete(ctx context.Context, id string) error
}
