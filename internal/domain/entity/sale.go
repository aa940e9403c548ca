package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusPending   = "PENDING"
	SaleStatusCancelled = "CANCELLED"
)

// Medios de pago aceptados en mostrador.
const (
	PaymentEfectivo        = "EFECTIVO"
	PaymentTarjetaDebito   = "TARJETA_DEBITO"
	PaymentTarjetaCredito  = "TARJETA_CREDITO"
	PaymentTransferencia   = "TRANSFERENCIA"
	PaymentCuentaCorriente = "CUENTA_CORRIENTE"
)

// IsValidPaymentMethod indica si el medio de pago es uno de los soportados.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentEfectivo, PaymentTarjetaDebito, PaymentTarjetaCredito, PaymentTransferencia, PaymentCuentaCorriente:
		return true
	}
	return false
}

// Sale cabecera de una venta de mostrador. Se crea junto con sus ítems y el descuento de stock.
type Sale struct {
	ID             string
	CompanyID      string
	ClientID       string // vacío = consumidor final sin registrar
	UserID         string
	Number         string
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	Status         string
	IdempotencyKey string
	CreatedAt      time.Time

	Items []SaleItem
	// Client se completa en lecturas de detalle.
	Client *Client
}

// SaleItem línea de venta. ListPrice es el precio de catálogo al momento de vender;
// UnitPrice difiere solo si se aplicó un descuento explícito.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductCode string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	ListPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
