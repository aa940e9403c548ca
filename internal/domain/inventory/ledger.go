// Package inventory contiene las reglas puras del libro de stock.
package inventory

import (
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Result efecto de aplicar un movimiento sobre una existencia.
type Result struct {
	NewQuantity decimal.Decimal
	// Logged magnitud que se registra en el movimiento: abs(quantity) para todos los tipos.
	Logged decimal.Decimal
}

// ValidateMovement chequea tipo y cantidad antes de tocar la base.
// IN y OUT requieren cantidad positiva; ADJUSTMENT admite cero pero no negativos.
func ValidateMovement(movementType string, quantity decimal.Decimal) error {
	switch movementType {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement calcula la nueva existencia:
//   - IN suma
//   - OUT resta y falla con ErrInsufficientStock si quedaría negativa
//   - ADJUSTMENT fija el valor absoluto
func ApplyMovement(current decimal.Decimal, movementType string, quantity decimal.Decimal) (Result, error) {
	if err := ValidateMovement(movementType, quantity); err != nil {
		return Result{}, err
	}
	var next decimal.Decimal
	switch movementType {
	case entity.MovementTypeIN:
		next = current.Add(quantity)
	case entity.MovementTypeOUT:
		next = current.Sub(quantity)
		if next.IsNegative() {
			return Result{}, domain.ErrInsufficientStock
		}
	case entity.MovementTypeADJUSTMENT:
		next = quantity
	}
	return Result{NewQuantity: next, Logged: quantity.Abs()}, nil
}

// Replay reconstruye la existencia aplicando en orden una serie de movimientos desde cero.
// Sirve para auditar que Stock.Quantity coincide con el libro.
func Replay(movements []entity.StockMovement) (decimal.Decimal, error) {
	qty := decimal.Zero
	for _, m := range movements {
		r, err := ApplyMovement(qty, m.Type, m.Quantity)
		if err != nil {
			return decimal.Zero, err
		}
		qty = r.NewQuantity
	}
	return qty, nil
}
