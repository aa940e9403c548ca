package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Type     string                `json:"type" validate:"required,oneof=INVOICE REMITO QUOTE"`
	ClientID string                `json:"client_id" validate:"required,uuid"`
	Number   string                `json:"number" validate:"omitempty,max=40"`
	Notes    string                `json:"notes" validate:"omitempty,max=2000"`
	Status   string                `json:"status" validate:"omitempty,oneof=DRAFT SENT PAID CANCELLED"`
	Items    []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
	// IdempotencyKey se toma del header Idempotency-Key.
	IdempotencyKey string `json:"-"`
}

// UpdateDocumentRequest cambios parciales. Si Items viene, reemplaza el conjunto de
// ítems y recalcula totales; una lista vacía se rechaza.
type UpdateDocumentRequest struct {
	ClientID *string                `json:"client_id" validate:"omitempty,uuid"`
	Number   *string                `json:"number" validate:"omitempty,min=1,max=40"`
	Notes    *string                `json:"notes" validate:"omitempty,max=2000"`
	Status   *string                `json:"status" validate:"omitempty,oneof=DRAFT SENT PAID CANCELLED"`
	Items    *[]DocumentItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

// DocumentItemRequest línea de comprobante.
type DocumentItemRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// DocumentResponse comprobante con cliente e ítems.
type DocumentResponse struct {
	ID            string                 `json:"id"`
	CompanyID     string                 `json:"company_id"`
	Type          string                 `json:"type"`
	Number        string                 `json:"number"`
	InvoiceLetter string                 `json:"invoice_letter,omitempty"`
	VoucherCode   int                    `json:"voucher_code,omitempty"` // código de comprobante AFIP (1, 6, 11)
	ClientID      string                 `json:"client_id"`
	Client        *ClientResponse        `json:"client,omitempty"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Notes         string                 `json:"notes,omitempty"`
	Status        string                 `json:"status"`
	CAE           string                 `json:"cae,omitempty"`
	CAEExpiresAt  *time.Time             `json:"cae_expires_at,omitempty"`
	Items         []DocumentItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// DocumentItemResponse línea de comprobante en respuestas.
type DocumentItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// DocumentListResponse lista paginada de comprobantes (sin ítems).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DocumentQuery filtros de GET /api/documents.
type DocumentQuery struct {
	Type     string `query:"type" validate:"omitempty,oneof=INVOICE REMITO QUOTE"`
	Status   string `query:"status" validate:"omitempty,oneof=DRAFT SENT PAID CANCELLED"`
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
	PageRequest
}
