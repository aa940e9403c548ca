package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// replenishmentWindow historial de ventas considerado para priorizar.
const replenishmentWindow = 90 * 24 * time.Hour

// ReplenishmentUseCase genera la lista de reposición de la empresa.
// Combina el stock bajo mínimo con el volumen vendido para priorizar los productos críticos.
type ReplenishmentUseCase struct {
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos con quantity <= min_quantity y la cantidad
// sugerida para volver al máximo configurado (o al doble del mínimo si no hay máximo).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, tc domain.TenantContext) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el mínimo
	levels, err := uc.stockRepo.ListByCompany(ctx, tc.CompanyID, true)
	if err != nil {
		return nil, fmt.Errorf("listar stock bajo: %w", err)
	}
	if len(levels) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Unidades vendidas en la ventana, por producto
	since := uc.now().Add(-replenishmentWindow)
	top, err := uc.analyticsRepo.GetTopProducts(ctx, tc.CompanyID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("obtener ventas por producto: %w", err)
	}
	soldByID := make(map[string]decimal.Decimal, len(top))
	for _, t := range top {
		soldByID[t.ProductID] = t.QuantitySold
	}

	// 3. Sugerencias
	two := decimal.NewFromInt(2)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(levels))
	for _, l := range levels {
		target := l.MaxQuantity
		if !target.IsPositive() {
			target = l.MinQuantity.Mul(two)
		}
		qty := zeroIfNegative(target.Sub(l.Quantity))

		var unitCost decimal.Decimal
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("obtener producto: %w", err)
		}
		if p != nil {
			unitCost = p.Cost
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         l.ProductID,
			ProductCode:       l.ProductCode,
			ProductName:       l.ProductName,
			CurrentStock:      l.Quantity,
			MinQuantity:       l.MinQuantity,
			TargetStock:       target,
			SuggestedOrderQty: qty,
			UnitCost:          unitCost,
			EstimatedCost:     qty.Mul(unitCost).Round(2),
			UnitsSold90Days:   soldByID[l.ProductID],
		})
	}

	// 4. Ordenar: mayor volumen vendido, luego mayor déficit bajo el mínimo
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.UnitsSold90Days.Equal(b.UnitsSold90Days) {
			return a.UnitsSold90Days.GreaterThan(b.UnitsSold90Days)
		}
		defA := a.MinQuantity.Sub(a.CurrentStock)
		defB := b.MinQuantity.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func zeroIfNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
