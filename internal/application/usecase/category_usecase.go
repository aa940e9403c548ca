package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías. El nombre es único por empresa.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, now: time.Now}
}

// Create crea una categoría. Devuelve domain.ErrDuplicate si el nombre ya existe en la empresa.
func (uc *CategoryUseCase) Create(ctx context.Context, tc domain.TenantContext, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	now := uc.now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		CompanyID:   tc.CompanyID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("crear categoría %q: %w", name, err)
	}
	out := dto.FromCategory(category)
	return &out, nil
}

// List devuelve las categorías de la empresa ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, tc domain.TenantContext) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, tc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listar categorías: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromCategory(c))
	}
	return out, nil
}

// Update renombra o cambia la descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, tc domain.TenantContext, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
		if category.Name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	category.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("actualizar categoría: %w", err)
	}
	out := dto.FromCategory(category)
	return &out, nil
}

// Delete elimina la categoría si ningún producto la referencia (domain.ErrCategoryInUse).
func (uc *CategoryUseCase) Delete(ctx context.Context, tc domain.TenantContext, id string) error {
	if _, err := uc.owned(ctx, tc, id); err != nil {
		return err
	}
	n, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("contar productos: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w (%d productos)", domain.ErrCategoryInUse, n)
	}
	// La restricción de la base cubre un producto asignado entre el conteo y el borrado.
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar categoría: %w", err)
	}
	return nil
}

func (uc *CategoryUseCase) owned(ctx context.Context, tc domain.TenantContext, id string) (*entity.Category, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener categoría: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(category.CompanyID); err != nil {
		return nil, err
	}
	return category, nil
}
