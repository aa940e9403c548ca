package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID      string            `json:"client_id" validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=EFECTIVO TARJETA_DEBITO TARJETA_CREDITO TRANSFERENCIA CUENTA_CORRIENTE"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	// IdempotencyKey se toma del header Idempotency-Key; no viaja en el body.
	IdempotencyKey string `json:"-"`
}

// SaleItemRequest línea de venta. UnitPrice es opcional: si se envía debe ser
// mayor a cero y no superar el precio de lista (descuento explícito).
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleResponse venta con cliente e ítems.
type SaleResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	Number        string             `json:"number"`
	ClientID      string             `json:"client_id,omitempty"`
	Client        *ClientResponse    `json:"client,omitempty"`
	UserID        string             `json:"user_id,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleListResponse lista paginada de ventas (sin ítems).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
