package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// CatalogTxRunner ejecuta una función en una transacción con los repositorios del catálogo.
type CatalogTxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ProductUseCase casos de uso CRUD para productos. Cost y Stock se manejan vía movimientos;
// el alta crea el producto, su fila de stock y el movimiento de stock inicial juntos.
type ProductUseCase struct {
	txRunner     CatalogTxRunner
	repo         repository.ProductRepository
	stockRepo    repository.StockRepository
	categoryRepo repository.CategoryRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner CatalogTxRunner,
	repo repository.ProductRepository,
	stockRepo repository.StockRepository,
	categoryRepo repository.CategoryRepository,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		txRunner:     txRunner,
		repo:         repo,
		stockRepo:    stockRepo,
		categoryRepo: categoryRepo,
		log:          log.WithComponent("productos"),
		now:          time.Now,
	}
}

// Create crea un nuevo producto con su stock. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, tc domain.TenantContext, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el precio debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if in.Cost.IsNegative() || in.InitialStock.IsNegative() {
		return nil, fmt.Errorf("%w: costo y stock inicial no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := checkThresholds(in.MinQuantity, in.MaxQuantity); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, tc, in.CategoryID); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}

	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   tc.CompanyID,
		CategoryID:  in.CategoryID,
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Cost:        in.Cost,
		Unit:        unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stock := &entity.Stock{
		ProductID:   product.ID,
		Quantity:    in.InitialStock,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		Location:    strings.TrimSpace(in.Location),
		UpdatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("crear producto %q: %w", code, err)
		}
		if err := stockRepo.Create(ctx, stock); err != nil {
			return fmt.Errorf("crear stock: %w", err)
		}
		if !in.InitialStock.IsPositive() {
			return nil
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:               uuid.New().String(),
			CompanyID:        tc.CompanyID,
			ProductID:        product.ID,
			Type:             entity.MovementTypeIN,
			Quantity:         in.InitialStock,
			PreviousQuantity: decimal.Zero,
			NewQuantity:      in.InitialStock,
			Reason:           entity.MovementReasonInitialStock,
			UserID:           tc.UserID,
			CreatedAt:        now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", tc.CompanyID).
		Str("product_id", product.ID).
		Str("code", code).
		Msg("producto creado")
	out := dto.FromProduct(product, stock)
	return &out, nil
}

// GetByID obtiene un producto con su existencia.
func (uc *ProductUseCase) GetByID(ctx context.Context, tc domain.TenantContext, id string) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	stock, err := uc.stockRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener stock: %w", err)
	}
	out := dto.FromProduct(product, stock)
	return &out, nil
}

// List lista productos por empresa con búsqueda por código o nombre y filtro por categoría.
func (uc *ProductUseCase) List(ctx context.Context, tc domain.TenantContext, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		CompanyID:  tc.CompanyID,
		CategoryID: q.CategoryID,
		Search:     strings.TrimSpace(q.Search),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		stock, err := uc.stockRepo.Get(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("obtener stock: %w", err)
		}
		items = append(items, dto.FromProduct(p, stock))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	}, nil
}

// Update actualiza datos y umbrales de stock. La cantidad no se modifica acá.
func (uc *ProductUseCase) Update(ctx context.Context, tc domain.TenantContext, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	current, err := uc.stockRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener stock: %w", err)
	}
	if current == nil {
		current = &entity.Stock{ProductID: id}
	}

	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if product.Code == "" || product.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, tc, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, fmt.Errorf("%w: el precio debe ser mayor a cero", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Cost = *in.Cost
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		product.Unit = strings.TrimSpace(*in.Unit)
	}

	thresholds := in.MinQuantity != nil || in.MaxQuantity != nil || in.Location != nil
	if in.MinQuantity != nil {
		current.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		current.MaxQuantity = *in.MaxQuantity
	}
	if in.Location != nil {
		current.Location = strings.TrimSpace(*in.Location)
	}
	if err := checkThresholds(current.MinQuantity, current.MaxQuantity); err != nil {
		return nil, err
	}

	product.UpdatedAt = uc.now()
	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Update(ctx, product); err != nil {
			return fmt.Errorf("actualizar producto: %w", err)
		}
		if !thresholds {
			return nil
		}
		locked, err := stockRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		if locked == nil {
			current.UpdatedAt = product.UpdatedAt
			return stockRepo.Create(ctx, current)
		}
		current.Quantity = locked.Quantity
		return stockRepo.UpdateThresholds(ctx, id, current.MinQuantity, current.MaxQuantity, current.Location)
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromProduct(product, current)
	return &out, nil
}

// Delete elimina un producto con su stock y movimientos. Falla con ErrConflict si figura en ventas.
func (uc *ProductUseCase) Delete(ctx context.Context, tc domain.TenantContext, id string) error {
	if _, err := uc.owned(ctx, tc, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	uc.log.Info().Str("company_id", tc.CompanyID).Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) owned(ctx context.Context, tc domain.TenantContext, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(product.CompanyID); err != nil {
		return nil, err
	}
	return product, nil
}

// checkCategory valida que la categoría exista y sea de la empresa. Vacío = sin categoría.
func (uc *ProductUseCase) checkCategory(ctx context.Context, tc domain.TenantContext, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("obtener categoría: %w", err)
	}
	if category == nil || category.CompanyID != tc.CompanyID {
		return fmt.Errorf("%w: categoría %s inexistente", domain.ErrInvalidInput, categoryID)
	}
	return nil
}

func checkThresholds(minQty, maxQty decimal.Decimal) error {
	if minQty.IsNegative() || maxQty.IsNegative() {
		return fmt.Errorf("%w: los umbrales de stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if maxQty.IsPositive() && maxQty.LessThan(minQty) {
		return fmt.Errorf("%w: el máximo de stock es menor al mínimo", domain.ErrInvalidInput)
	}
	return nil
}
