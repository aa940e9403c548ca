package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsResponse agregados del período para GET /api/stats.
// Los campos *Label están formateados en pesos solo para presentación.
type StatsResponse struct {
	Period            string          `json:"period"`
	Since             time.Time       `json:"since"`
	SalesTotal        decimal.Decimal `json:"sales_total"`
	SalesTotalLabel   string          `json:"sales_total_label"`
	SalesCount        int             `json:"sales_count"`
	PaidInvoices      decimal.Decimal `json:"paid_invoices_total"`
	PaidInvoicesLabel string          `json:"paid_invoices_total_label"`
	LowStock          []StockResponse `json:"low_stock"`
	TopProducts       []TopProductDTO `json:"top_products"`
}

// TopProductDTO producto del ranking por cantidad vendida.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
