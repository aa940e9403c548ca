package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantIngreso * CostoIngreso)) / (StockActual + CantIngreso)
// Una existencia negativa o nula previa no pondera: el costo pasa a ser el del ingreso.
func CostCalculator(stockActual, costoActual, cantIngreso, costoIngreso decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantIngreso)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantIngreso.Mul(costoIngreso))
	return num.Div(sum).Round(4)
}
