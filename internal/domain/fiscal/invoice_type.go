// Package fiscal reúne las reglas fiscales simuladas: letra de factura y autorización (CAE).
package fiscal

import "github.com/jhoicas/mostrador-api/internal/domain/entity"

// Letras de factura.
const (
	InvoiceA = "A"
	InvoiceB = "B"
	InvoiceC = "C"
)

// DetermineInvoiceType decide la letra de la factura según la condición frente al IVA
// del emisor y del receptor:
//   - emisor monotributista: C, sin importar el receptor
//   - responsable inscripto a responsable inscripto: A
//   - responsable inscripto a cualquier otro: B
//   - cualquier otro caso: B
func DetermineInvoiceType(companyCondition, clientCondition string) string {
	switch companyCondition {
	case entity.TaxConditionMonotributo:
		return InvoiceC
	case entity.TaxConditionResponsableInscripto:
		if clientCondition == entity.TaxConditionResponsableInscripto {
			return InvoiceA
		}
		return InvoiceB
	}
	return InvoiceB
}
