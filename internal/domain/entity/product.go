package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit unidad de medida si el alta no indica otra.
const DefaultUnit = "unidad"

// Product representa un artículo vendible. El código es único en todo el sistema.
// Cost es promedio ponderado actualizado por los ingresos de mercadería.
type Product struct {
	ID          string
	CompanyID   string
	CategoryID  string // vacío = sin categoría
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal // precio de lista, sin IVA
	Cost        decimal.Decimal
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
