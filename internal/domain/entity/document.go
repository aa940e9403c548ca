package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante.
const (
	DocumentTypeInvoice = "INVOICE" // factura
	DocumentTypeRemito  = "REMITO"  // remito (no fiscal)
	DocumentTypeQuote   = "QUOTE"   // presupuesto
)

// Estados de un comprobante.
const (
	DocumentStatusDraft     = "DRAFT"
	DocumentStatusSent      = "SENT"
	DocumentStatusPaid      = "PAID"
	DocumentStatusCancelled = "CANCELLED"
)

// DocumentNumberPrefix prefijo de numeración por tipo de comprobante.
var DocumentNumberPrefix = map[string]string{
	DocumentTypeInvoice: "FC",
	DocumentTypeRemito:  "RM",
	DocumentTypeQuote:   "PR",
}

// IsValidDocumentType indica si t es un tipo de comprobante soportado.
func IsValidDocumentType(t string) bool {
	_, ok := DocumentNumberPrefix[t]
	return ok
}

// IsValidDocumentStatus indica si s es un estado soportado.
func IsValidDocumentStatus(s string) bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusSent, DocumentStatusPaid, DocumentStatusCancelled:
		return true
	}
	return false
}

// Document cabecera de factura, remito o presupuesto.
type Document struct {
	ID             string
	CompanyID      string
	ClientID       string
	Type           string
	Number         string
	InvoiceLetter  string // A, B o C; solo facturas
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Notes          string
	Status         string
	CAE            string
	CAEExpiresAt   *time.Time
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items  []DocumentItem
	Client *Client
}

// IsLocked indica si el comprobante ya no admite cambios de ítems.
func (d *Document) IsLocked() bool {
	return d.Status == DocumentStatusPaid || d.Status == DocumentStatusCancelled
}

// DocumentItem línea de un comprobante. Position define el orden y la clave del diff en updates.
type DocumentItem struct {
	ID          string
	DocumentID  string
	Position    int
	ProductID   string // opcional
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
