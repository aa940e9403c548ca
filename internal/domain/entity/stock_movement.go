package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN         = "IN"         // ingreso
	MovementTypeOUT        = "OUT"        // egreso
	MovementTypeADJUSTMENT = "ADJUSTMENT" // fija la existencia a un valor absoluto
)

// Motivos usados por los flujos automáticos.
const (
	MovementReasonSale         = "Venta"
	MovementReasonSaleCancel   = "Anulación venta"
	MovementReasonInitialStock = "Stock inicial"
)

// StockMovement asiento inmutable del libro de stock.
// Quantity es siempre la magnitud (>= 0); para ADJUSTMENT es el nivel absoluto fijado.
// PreviousQuantity/NewQuantity permiten reconstruir la variación real.
type StockMovement struct {
	ID               string
	CompanyID        string
	ProductID        string
	Type             string
	Quantity         decimal.Decimal
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Reason           string
	Reference        string
	UserID           string
	CreatedAt        time.Time
}
