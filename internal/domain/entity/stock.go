package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock existencia actual de un producto (relación 1:1 con Product).
type Stock struct {
	ProductID   string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	MaxQuantity decimal.Decimal
	Location    string
	UpdatedAt   time.Time
}

// IsLow indica si la existencia llegó al mínimo configurado.
func (s *Stock) IsLow() bool {
	return s.Quantity.LessThanOrEqual(s.MinQuantity)
}

// StockLevel fila de listado: stock con los datos del producto.
type StockLevel struct {
	Stock
	CompanyID   string
	ProductCode string
	ProductName string
	Unit        string
}
