package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	TaxID        string `json:"tax_id" validate:"omitempty,max=20"`
	DocumentType string `json:"document_type" validate:"omitempty,oneof=CUIT CUIL DNI PASAPORTE SIN_IDENTIFICAR"`
	TaxCondition string `json:"tax_condition" validate:"omitempty,oneof=RESPONSABLE_INSCRIPTO MONOTRIBUTO EXENTO CONSUMIDOR_FINAL"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address      string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// UpdateClientRequest cambios parciales; campos nil no se tocan.
type UpdateClientRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID        *string          `json:"tax_id" validate:"omitempty,max=20"`
	DocumentType *string          `json:"document_type" validate:"omitempty,oneof=CUIT CUIL DNI PASAPORTE SIN_IDENTIFICAR"`
	TaxCondition *string          `json:"tax_condition" validate:"omitempty,oneof=RESPONSABLE_INSCRIPTO MONOTRIBUTO EXENTO CONSUMIDOR_FINAL"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone" validate:"omitempty,max=50"`
	Address      *string          `json:"address" validate:"omitempty,max=300"`
	Balance      *decimal.Decimal `json:"balance"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Name         string          `json:"name"`
	TaxID        string          `json:"tax_id,omitempty"`
	DocumentType string          `json:"document_type"`
	TaxCondition string          `json:"tax_condition"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ClientQuery filtros de GET /api/clients.
type ClientQuery struct {
	Search string `query:"search" validate:"omitempty,max=100"`
	PageRequest
}
