// Package sales implementa el circuito de venta de mostrador: alta con descuento
// de stock en una sola transacción, consulta y anulación.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/application/idempotency"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	txRunner   SaleTxRunner
	saleRepo   repository.SaleRepository
	clientRepo repository.ClientRepository
	guard      *idempotency.Guard
	log        *logger.Logger
	now        func() time.Time
}

// NewSaleUseCase construye el caso de uso. guard puede ser nil (sin control de solicitudes en curso).
func NewSaleUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	guard *idempotency.Guard,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner:   txRunner,
		saleRepo:   saleRepo,
		clientRepo: clientRepo,
		guard:      guard,
		log:        log.WithComponent("ventas"),
		now:        time.Now,
	}
}

// GetSale devuelve la venta con ítems y cliente.
func (uc *SaleUseCase) GetSale(ctx context.Context, tc domain.TenantContext, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(sale.CompanyID); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, sale)
}

// ListSales lista las ventas de la empresa, más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, tc domain.TenantContext, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.ListByCompany(ctx, tc.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.FromSale(s))
	}
	return out, nil
}

// toResponse completa el cliente (si hay) y convierte a DTO.
func (uc *SaleUseCase) toResponse(ctx context.Context, sale *entity.Sale) (*dto.SaleResponse, error) {
	if sale.ClientID != "" && sale.Client == nil {
		client, err := uc.clientRepo.GetByID(ctx, sale.ClientID)
		if err != nil {
			return nil, fmt.Errorf("obtener cliente de la venta: %w", err)
		}
		sale.Client = client
	}
	out := dto.FromSale(sale)
	return &out, nil
}
