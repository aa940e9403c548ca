package repository

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	// Create y Update devuelven domain.ErrDuplicate si el nombre ya existe en la empresa.
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	CountProducts(ctx context.Context, categoryID string) (int, error)
	// Delete devuelve domain.ErrCategoryInUse si algún producto la referencia.
	Delete(ctx context.Context, id string) error
}
