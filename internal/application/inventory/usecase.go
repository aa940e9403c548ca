package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/inventory"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// StockUseCase registra movimientos de stock de forma transaccional
// (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type StockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		log:         log.WithComponent("stock"),
		now:         time.Now,
	}
}

// AdjustStock bloquea la fila de stock, aplica el movimiento según su tipo y asienta el
// movimiento en el libro. Un IN con UnitCost recalcula el costo promedio ponderado del producto.
func (uc *StockUseCase) AdjustStock(ctx context.Context, tc domain.TenantContext, in dto.StockAdjustRequest) (*dto.StockAdjustResponse, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: falta el producto", domain.ErrInvalidInput)
	}
	if err := inventory.ValidateMovement(in.Type, in.Quantity); err != nil {
		return nil, fmt.Errorf("%w: movimiento %s de %s", err, in.Type, in.Quantity.String())
	}
	if in.UnitCost != nil && (in.Type != entity.MovementTypeIN || in.UnitCost.IsNegative()) {
		return nil, fmt.Errorf("%w: el costo unitario solo aplica a ingresos y no puede ser negativo", domain.ErrInvalidInput)
	}

	// Validar que el producto exista y sea de la empresa (fuera de la tx, solo lectura)
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(product.CompanyID); err != nil {
		return nil, err
	}

	now := uc.now()
	var out dto.StockAdjustResponse
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		if stock == nil {
			stock = &entity.Stock{ProductID: productID, UpdatedAt: now}
			if err := stockRepo.Create(ctx, stock); err != nil {
				return fmt.Errorf("crear stock: %w", err)
			}
		}
		res, err := inventory.ApplyMovement(stock.Quantity, in.Type, in.Quantity)
		if err != nil {
			return err
		}
		if in.UnitCost != nil {
			// El costo se relee bajo bloqueo: otro ingreso pudo cambiarlo desde la validación.
			locked, err := productRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return fmt.Errorf("bloquear producto: %w", err)
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			cost := inventory.CostCalculator(stock.Quantity, locked.Cost, in.Quantity, *in.UnitCost)
			if err := productRepo.UpdateCost(ctx, productID, cost); err != nil {
				return fmt.Errorf("actualizar costo: %w", err)
			}
		}
		if err := stockRepo.SetQuantity(ctx, productID, res.NewQuantity); err != nil {
			return fmt.Errorf("guardar stock: %w", err)
		}
		mov := &entity.StockMovement{
			ID:               uuid.New().String(),
			CompanyID:        tc.CompanyID,
			ProductID:        productID,
			Type:             in.Type,
			Quantity:         res.Logged,
			PreviousQuantity: stock.Quantity,
			NewQuantity:      res.NewQuantity,
			Reason:           strings.TrimSpace(in.Reason),
			Reference:        strings.TrimSpace(in.Reference),
			UserID:           tc.UserID,
			CreatedAt:        now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return fmt.Errorf("registrar movimiento: %w", err)
		}

		stock.Quantity = res.NewQuantity
		stock.UpdatedAt = now
		out.Stock = dto.FromStockLevel(&entity.StockLevel{
			Stock:       *stock,
			CompanyID:   product.CompanyID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Unit:        product.Unit,
		})
		out.Movement = dto.FromMovement(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", tc.CompanyID).
		Str("product_id", productID).
		Str("type", in.Type).
		Str("quantity", in.Quantity.String()).
		Str("new_quantity", out.Stock.Quantity.String()).
		Msg("stock ajustado")
	return &out, nil
}

// ListStock devuelve la existencia de la empresa ordenada por nombre de producto.
// lowOnly filtra a quantity <= min_quantity.
func (uc *StockUseCase) ListStock(ctx context.Context, tc domain.TenantContext, lowOnly bool) ([]dto.StockResponse, error) {
	levels, err := uc.stockRepo.ListByCompany(ctx, tc.CompanyID, lowOnly)
	if err != nil {
		return nil, fmt.Errorf("listar stock: %w", err)
	}
	out := make([]dto.StockResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.FromStockLevel(l))
	}
	return out, nil
}

// ListMovements devuelve el libro de un producto, más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, tc domain.TenantContext, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(product.CompanyID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.FromMovement(m))
	}
	return out, nil
}
