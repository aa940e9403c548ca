package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de identidad del cliente.
const (
	DocumentTypeCUIT           = "CUIT"
	DocumentTypeCUIL           = "CUIL"
	DocumentTypeDNI            = "DNI"
	DocumentTypePasaporte      = "PASAPORTE"
	DocumentTypeSinIdentificar = "SIN_IDENTIFICAR"
)

// Client representa un cliente de la empresa (ventas y comprobantes).
type Client struct {
	ID           string
	CompanyID    string
	Name         string
	TaxID        string // CUIT/CUIL/DNI según DocumentType
	DocumentType string
	TaxCondition string // ver TaxCondition*
	Email        string
	Phone        string
	Address      string
	Balance      decimal.Decimal // saldo de cuenta corriente
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
