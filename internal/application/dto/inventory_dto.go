package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustRequest body para POST /api/stock.
// Type: IN, OUT o ADJUSTMENT. UnitCost opcional en IN recalcula el costo promedio.
type StockAdjustRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Type      string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gte=0"`
	Reason    string           `json:"reason" validate:"omitempty,max=200"`
	Reference string           `json:"reference" validate:"omitempty,max=100"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// StockResponse existencia de un producto.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
	Location    string          `json:"location,omitempty"`
	LowStock    bool            `json:"low_stock"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockMovementResponse asiento del libro de stock.
type StockMovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reason           string          `json:"reason,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	UserID           string          `json:"user_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// StockAdjustResponse resultado del ajuste: existencia nueva y el asiento generado.
type StockAdjustResponse struct {
	Stock    StockResponse         `json:"stock"`
	Movement StockMovementResponse `json:"movement"`
}

// ReplenishmentSuggestionDTO producto bajo mínimo con la cantidad sugerida a reponer.
type ReplenishmentSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	TargetStock       decimal.Decimal `json:"target_stock"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	UnitsSold90Days   decimal.Decimal `json:"units_sold_90_days"`
	Priority          int             `json:"priority"`
}
