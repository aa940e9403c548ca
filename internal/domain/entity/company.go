package entity

import "time"

// Condiciones frente al IVA (AFIP). Aplican tanto a la empresa emisora como al cliente.
const (
	TaxConditionResponsableInscripto = "RESPONSABLE_INSCRIPTO"
	TaxConditionMonotributo          = "MONOTRIBUTO"
	TaxConditionExento               = "EXENTO"
	TaxConditionConsumidorFinal      = "CONSUMIDOR_FINAL"
)

// Company representa una empresa/tenant del sistema. Todas las demás entidades cuelgan de ella.
type Company struct {
	ID           string
	Name         string
	CUIT         string // 11 dígitos sin separadores, único
	TaxCondition string // ver TaxCondition*; CONSUMIDOR_FINAL no aplica a empresas
	Address      string
	Phone        string
	Email        string
	PointOfSale  int // punto de venta AFIP
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
