package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/inventory"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

const idempotencyScope = "venta"

var ivaRate = decimal.RequireFromString(afip.IVARate)

// saleLine cantidad total pedida de un producto (ítems repetidos se suman).
type saleLine struct {
	productID string
	quantity  decimal.Decimal
}

// CreateSale registra la venta, sus ítems y el descuento de stock en una única transacción.
// El bool indica que la respuesta es la repetición de una venta ya creada con la misma Idempotency-Key.
func (uc *SaleUseCase) CreateSale(ctx context.Context, tc domain.TenantContext, in dto.CreateSaleRequest) (*dto.SaleResponse, bool, error) {
	lines, err := mergeItems(in.Items)
	if err != nil {
		return nil, false, err
	}
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = entity.PaymentEfectivo
	}
	if !entity.IsValidPaymentMethod(payment) {
		return nil, false, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, payment)
	}

	clientID := strings.TrimSpace(in.ClientID)
	if clientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, clientID)
		if err != nil {
			return nil, false, fmt.Errorf("obtener cliente: %w", err)
		}
		if client == nil {
			return nil, false, fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		if err := tc.EnsureOwner(client.CompanyID); err != nil {
			return nil, false, err
		}
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if prev, err := uc.findReplay(ctx, tc, key); err != nil || prev != nil {
			return prev, prev != nil, err
		}
		release, err := uc.guard.Acquire(ctx, idempotencyScope, tc.CompanyID, key)
		if err != nil {
			return nil, false, err
		}
		defer release()
		// Quien tenía la clave pudo confirmar entre la consulta y el Acquire.
		if prev, err := uc.findReplay(ctx, tc, key); err != nil || prev != nil {
			return prev, prev != nil, err
		}
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		CompanyID:      tc.CompanyID,
		ClientID:       clientID,
		UserID:         tc.UserID,
		Number:         saleNumber(now),
		PaymentMethod:  payment,
		Status:         entity.SaleStatusCompleted,
		IdempotencyKey: key,
		CreatedAt:      now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		products, err := lockStock(ctx, tc, lines, stockRepo, productRepo)
		if err != nil {
			return err
		}
		if err := priceSale(sale, in.Items, products); err != nil {
			return err
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		for _, l := range lines {
			left, err := stockRepo.Decrement(ctx, l.productID, l.quantity)
			if err != nil {
				return fmt.Errorf("descontar stock de %s: %w", products[l.productID].Code, err)
			}
			mov := &entity.StockMovement{
				ID:               uuid.New().String(),
				CompanyID:        tc.CompanyID,
				ProductID:        l.productID,
				Type:             entity.MovementTypeOUT,
				Quantity:         l.quantity,
				PreviousQuantity: left.Add(l.quantity),
				NewQuantity:      left,
				Reason:           entity.MovementReasonSale,
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
		if key != "" && errors.Is(err, domain.ErrDuplicate) {
			if prev, rerr := uc.findReplay(ctx, tc, key); rerr == nil && prev != nil {
				return prev, true, nil
			}
		}
		uc.log.Warn().Err(err).Str("company_id", tc.CompanyID).Msg("venta rechazada")
		return nil, false, err
	}

	uc.log.Info().
		Str("company_id", tc.CompanyID).
		Str("sale_id", sale.ID).
		Str("number", sale.Number).
		Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("venta registrada")

	resp, err := uc.toResponse(ctx, sale)
	return resp, false, err
}

func (uc *SaleUseCase) findReplay(ctx context.Context, tc domain.TenantContext, key string) (*dto.SaleResponse, error) {
	prev, err := uc.saleRepo.GetByIdempotencyKey(ctx, tc.CompanyID, key)
	if err != nil {
		return nil, fmt.Errorf("buscar venta por Idempotency-Key: %w", err)
	}
	if prev == nil {
		return nil, nil
	}
	uc.log.Info().Str("sale_id", prev.ID).Str("key", key).Msg("venta repetida, se devuelve la existente")
	return uc.toResponse(ctx, prev)
}

// mergeItems valida los ítems y suma cantidades por producto, ordenando por id
// para que los bloqueos de filas se tomen siempre en el mismo orden.
func mergeItems(items []dto.SaleItemRequest) ([]saleLine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidInput)
	}
	totals := make(map[string]decimal.Decimal, len(items))
	for i, it := range items {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: ítem %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		totals[id] = totals[id].Add(it.Quantity)
	}
	lines := make([]saleLine, 0, len(totals))
	for id, q := range totals {
		lines = append(lines, saleLine{productID: id, quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })
	return lines, nil
}

// lockStock carga cada producto, bloquea su fila de stock y verifica que alcance.
func lockStock(
	ctx context.Context,
	tc domain.TenantContext,
	lines []saleLine,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(lines))
	for _, l := range lines {
		p, err := productRepo.GetByID(ctx, l.productID)
		if err != nil {
			return nil, fmt.Errorf("obtener producto: %w", err)
		}
		if p == nil || p.CompanyID != tc.CompanyID {
			return nil, fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, l.productID)
		}
		st, err := stockRepo.GetForUpdate(ctx, l.productID)
		if err != nil {
			return nil, fmt.Errorf("bloquear stock: %w", err)
		}
		available := decimal.Zero
		if st != nil {
			available = st.Quantity
		}
		if _, err := inventory.ApplyMovement(available, entity.MovementTypeOUT, l.quantity); err != nil {
			return nil, fmt.Errorf("%w: %s (disponible %s, pedido %s)", err, p.Code, available.String(), l.quantity.String())
		}
		products[p.ID] = p
	}
	return products, nil
}

// priceSale arma los ítems con su precio y calcula subtotal, IVA y total.
func priceSale(sale *entity.Sale, items []dto.SaleItemRequest, products map[string]*entity.Product) error {
	subtotal := decimal.Zero
	sale.Items = make([]entity.SaleItem, 0, len(items))
	for _, it := range items {
		p := products[strings.TrimSpace(it.ProductID)]
		price, err := resolvePrice(p, it.UnitPrice)
		if err != nil {
			return err
		}
		lineTotal := it.Quantity.Mul(price).Round(2)
		subtotal = subtotal.Add(lineTotal)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   p.ID,
			ProductCode: p.Code,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			ListPrice:   p.Price,
			Subtotal:    lineTotal,
		})
	}
	sale.Subtotal = subtotal
	sale.Tax = subtotal.Mul(ivaRate).Round(2)
	sale.Total = sale.Subtotal.Add(sale.Tax)
	return nil
}

// resolvePrice usa el precio de lista salvo un descuento explícito en (0, precio de lista].
func resolvePrice(p *entity.Product, override *decimal.Decimal) (decimal.Decimal, error) {
	if override == nil {
		return p.Price, nil
	}
	if !override.IsPositive() || override.GreaterThan(p.Price) {
		return decimal.Zero, fmt.Errorf("%w: precio de %s debe ser mayor a 0 y no superar %s",
			domain.ErrInvalidInput, p.Code, p.Price.StringFixed(2))
	}
	return *override, nil
}

// saleNumber "VT" seguido de los últimos 8 dígitos del timestamp en milisegundos.
func saleNumber(t time.Time) string {
	return fmt.Sprintf("VT%08d", t.UnixMilli()%100_000_000)
}
