// Package analytics contiene los casos de uso de estadísticas del negocio.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/money"
)

const statsTopProducts = 5 // productos en el ranking de estadísticas

// Períodos aceptados por GetStats.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// StatsUseCase agrega ventas, facturas cobradas y stock de una empresa.
//
// Fuente de datos: AnalyticsRepository y StockRepository (consultas read-only).
type StatsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	stockRepo     repository.StockRepository
	formatter     *money.Formatter
	now           func() time.Time
}

// NewStatsUseCase construye el caso de uso. formatter nil usa pesos argentinos.
func NewStatsUseCase(analyticsRepo repository.AnalyticsRepository, stockRepo repository.StockRepository, formatter *money.Formatter) *StatsUseCase {
	if formatter == nil {
		formatter = money.Default()
	}
	return &StatsUseCase{
		analyticsRepo: analyticsRepo,
		stockRepo:     stockRepo,
		formatter:     formatter,
		now:           time.Now,
	}
}

// PeriodStart devuelve el inicio de la ventana para el período. Vacío equivale a month.
func PeriodStart(period string, now time.Time) (string, time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	switch p {
	case PeriodDay:
		return p, now.AddDate(0, 0, -1), nil
	case PeriodWeek:
		return p, now.AddDate(0, 0, -7), nil
	case "", PeriodMonth:
		return PeriodMonth, now.AddDate(0, -1, 0), nil
	case PeriodYear:
		return p, now.AddDate(-1, 0, 0), nil
	}
	return "", time.Time{}, fmt.Errorf("%w: período %q no soportado (day, week, month, year)", domain.ErrInvalidInput, period)
}

// GetStats construye las estadísticas del período.
//
// Cuatro consultas en paralelo:
//  1. GetSalesSummary(since)      → SalesTotal + SalesCount
//  2. GetPaidInvoicesTotal(since) → PaidInvoices
//  3. ListByCompany(lowOnly)      → LowStock
//  4. GetTopProducts(since, 5)    → TopProducts
func (uc *StatsUseCase) GetStats(ctx context.Context, tc domain.TenantContext, period string) (*dto.StatsResponse, error) {
	period, since, err := PeriodStart(period, uc.now())
	if err != nil {
		return nil, err
	}

	type salesResult struct {
		summary repository.SalesSummary
		err     error
	}
	type paidResult struct {
		total decimal.Decimal
		err   error
	}
	type lowResult struct {
		levels []*entity.StockLevel
		err    error
	}
	type topResult struct {
		rows []repository.TopProductResult
		err  error
	}

	salesCh := make(chan salesResult, 1)
	paidCh := make(chan paidResult, 1)
	lowCh := make(chan lowResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		s, err := uc.analyticsRepo.GetSalesSummary(ctx, tc.CompanyID, since)
		salesCh <- salesResult{s, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetPaidInvoicesTotal(ctx, tc.CompanyID, since)
		paidCh <- paidResult{t, err}
	}()
	go func() {
		l, err := uc.stockRepo.ListByCompany(ctx, tc.CompanyID, true)
		lowCh <- lowResult{l, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.GetTopProducts(ctx, tc.CompanyID, since, statsTopProducts)
		topCh <- topResult{r, err}
	}()

	sales := <-salesCh
	paid := <-paidCh
	low := <-lowCh
	top := <-topCh

	if sales.err != nil {
		return nil, fmt.Errorf("estadísticas: ventas: %w", sales.err)
	}
	if paid.err != nil {
		return nil, fmt.Errorf("estadísticas: facturas cobradas: %w", paid.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("estadísticas: stock bajo: %w", low.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("estadísticas: productos más vendidos: %w", top.err)
	}

	out := &dto.StatsResponse{
		Period:            period,
		Since:             since,
		SalesTotal:        sales.summary.Total.Round(2),
		SalesTotalLabel:   uc.formatter.Format(sales.summary.Total),
		SalesCount:        sales.summary.Count,
		PaidInvoices:      paid.total.Round(2),
		PaidInvoicesLabel: uc.formatter.Format(paid.total),
		LowStock:          make([]dto.StockResponse, 0, len(low.levels)),
		TopProducts:       make([]dto.TopProductDTO, 0, len(top.rows)),
	}
	for _, l := range low.levels {
		out.LowStock = append(out.LowStock, dto.FromStockLevel(l))
	}
	for _, r := range top.rows {
		out.TopProducts = append(out.TopProducts, dto.FromTopProduct(r))
	}
	return out, nil
}
