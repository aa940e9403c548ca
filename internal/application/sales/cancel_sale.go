package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/inventory"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// CancelSale anula una venta COMPLETED y devuelve al stock lo vendido con movimientos IN.
func (uc *SaleUseCase) CancelSale(ctx context.Context, tc domain.TenantContext, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		var err error
		sale, err = saleRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener venta: %w", err)
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := tc.EnsureOwner(sale.CompanyID); err != nil {
			return err
		}
		// El cambio condicional de estado bloquea la fila: dos anulaciones no devuelven stock dos veces.
		if err := saleRepo.TransitionStatus(ctx, sale.ID, entity.SaleStatusCompleted, entity.SaleStatusCancelled); err != nil {
			return fmt.Errorf("%w: solo se anulan ventas completadas", err)
		}
		sale.Status = entity.SaleStatusCancelled

		now := uc.now()
		for _, it := range sale.Items {
			st, err := stockRepo.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("bloquear stock: %w", err)
			}
			if st == nil {
				return fmt.Errorf("%w: producto %s sin stock", domain.ErrNotFound, it.ProductID)
			}
			res, err := inventory.ApplyMovement(st.Quantity, entity.MovementTypeIN, it.Quantity)
			if err != nil {
				return err
			}
			if err := stockRepo.SetQuantity(ctx, it.ProductID, res.NewQuantity); err != nil {
				return fmt.Errorf("devolver stock: %w", err)
			}
			mov := &entity.StockMovement{
				ID:               uuid.New().String(),
				CompanyID:        sale.CompanyID,
				ProductID:        it.ProductID,
				Type:             entity.MovementTypeIN,
				Quantity:         res.Logged,
				PreviousQuantity: st.Quantity,
				NewQuantity:      res.NewQuantity,
				Reason:           entity.MovementReasonSaleCancel,
				Reference:        sale.ID,
				UserID:           tc.UserID,
				CreatedAt:        now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return fmt.Errorf("registrar movimiento: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", tc.CompanyID).Str("sale_id", sale.ID).Msg("venta anulada")
	return uc.toResponse(ctx, sale)
}
