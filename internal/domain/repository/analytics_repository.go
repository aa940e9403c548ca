package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary totales de ventas completadas en una ventana.
type SalesSummary struct {
	Total decimal.Decimal
	Count int
}

// TopProductResult fila del ranking de productos más vendidos.
type TopProductResult struct {
	ProductID    string
	Code         string
	Name         string
	QuantitySold decimal.Decimal
	Revenue      decimal.Decimal
}

// AnalyticsRepository consultas de lectura para estadísticas. No modifica datos.
type AnalyticsRepository interface {
	// GetSalesSummary suma total y cantidad de ventas COMPLETED desde since.
	GetSalesSummary(ctx context.Context, companyID string, since time.Time) (SalesSummary, error)
	// GetPaidInvoicesTotal suma facturas (INVOICE) en estado PAID desde since.
	GetPaidInvoicesTotal(ctx context.Context, companyID string, since time.Time) (decimal.Decimal, error)
	// GetTopProducts ranking por cantidad vendida descendente (desempate por nombre).
	GetTopProducts(ctx context.Context, companyID string, since time.Time, limit int) ([]TopProductResult, error)
}
