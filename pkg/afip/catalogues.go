// Package afip contiene catálogos y validaciones usados en la facturación argentina.
// No realiza llamadas a servicios externos.
package afip

// =============================================================================
// Condición frente al IVA
// =============================================================================

const (
	CondicionResponsableInscripto = "RESPONSABLE_INSCRIPTO"
	CondicionMonotributo          = "MONOTRIBUTO"
	CondicionExento               = "EXENTO"
	CondicionConsumidorFinal      = "CONSUMIDOR_FINAL"
)

// ValidCompanyTaxConditions condiciones admitidas para la empresa emisora.
var ValidCompanyTaxConditions = map[string]bool{
	CondicionResponsableInscripto: true,
	CondicionMonotributo:          true,
	CondicionExento:               true,
}

// ValidClientTaxConditions condiciones admitidas para el receptor.
var ValidClientTaxConditions = map[string]bool{
	CondicionResponsableInscripto: true,
	CondicionMonotributo:          true,
	CondicionExento:               true,
	CondicionConsumidorFinal:      true,
}

// =============================================================================
// Tipos de documento del receptor (códigos de la tabla de AFIP)
// =============================================================================

// DocumentTypeCodes nombre del tipo de documento -> código AFIP.
var DocumentTypeCodes = map[string]int{
	"CUIT":            80,
	"CUIL":            86,
	"DNI":             96,
	"PASAPORTE":       94,
	"SIN_IDENTIFICAR": 99,
}

// =============================================================================
// Tipos de comprobante
// =============================================================================

// InvoiceTypeCodes letra de factura -> código de comprobante AFIP.
var InvoiceTypeCodes = map[string]int{
	"A": 1,
	"B": 6,
	"C": 11,
}

// IVARate alícuota general de IVA aplicada a todos los comprobantes (21%).
const IVARate = "0.21"
