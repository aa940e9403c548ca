package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyMovement_PorTipo(t *testing.T) {
	cases := []struct {
		name    string
		current string
		typ     string
		qty     string
		want    string
		wantErr error
	}{
		{"ingreso suma", "5", entity.MovementTypeIN, "3", "8", nil},
		{"egreso resta", "5", entity.MovementTypeOUT, "3", "2", nil},
		{"egreso exacto deja cero", "3", entity.MovementTypeOUT, "3", "0", nil},
		{"egreso mayor a existencia", "2", entity.MovementTypeOUT, "3", "", domain.ErrInsufficientStock},
		{"ajuste fija absoluto", "5", entity.MovementTypeADJUSTMENT, "12", "12", nil},
		{"ajuste a cero", "5", entity.MovementTypeADJUSTMENT, "0", "0", nil},
		{"cantidades fraccionarias", "1.5", entity.MovementTypeIN, "0.25", "1.75", nil},
		{"tipo desconocido", "5", "TRANSFER", "1", "", domain.ErrInvalidInput},
		{"ingreso en cero", "5", entity.MovementTypeIN, "0", "", domain.ErrInvalidInput},
		{"ajuste negativo", "5", entity.MovementTypeADJUSTMENT, "-1", "", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := inventory.ApplyMovement(d(tc.current), tc.typ, d(tc.qty))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.NewQuantity.Equal(d(tc.want)), "esperado %s, obtenido %s", tc.want, res.NewQuantity)
		})
	}
}

func TestApplyMovement_RegistraMagnitud(t *testing.T) {
	res, err := inventory.ApplyMovement(d("10"), entity.MovementTypeADJUSTMENT, d("4"))
	require.NoError(t, err)
	assert.True(t, res.Logged.Equal(d("4")), "el ajuste registra el nivel absoluto, no la diferencia")

	res, err = inventory.ApplyMovement(d("10"), entity.MovementTypeOUT, d("4"))
	require.NoError(t, err)
	assert.False(t, res.Logged.IsNegative(), "la magnitud registrada nunca es negativa")
}

// La existencia final es la suma algebraica de ingresos y egresos, y cada ajuste
// reinicia la cuenta en su valor absoluto.
func TestReplay_SumaAlgebraicaConAjustes(t *testing.T) {
	movs := []entity.StockMovement{
		{Type: entity.MovementTypeIN, Quantity: d("10")},
		{Type: entity.MovementTypeOUT, Quantity: d("3")},
		{Type: entity.MovementTypeIN, Quantity: d("2")},
		{Type: entity.MovementTypeADJUSTMENT, Quantity: d("7")},
		{Type: entity.MovementTypeOUT, Quantity: d("1.5")},
		{Type: entity.MovementTypeIN, Quantity: d("4")},
	}
	qty, err := inventory.Replay(movs)
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("9.5")), "obtenido %s", qty)
}

func TestReplay_SinAjustesEsIngresosMenosEgresos(t *testing.T) {
	movs := []entity.StockMovement{
		{Type: entity.MovementTypeIN, Quantity: d("5")},
		{Type: entity.MovementTypeIN, Quantity: d("5")},
		{Type: entity.MovementTypeOUT, Quantity: d("3")},
		{Type: entity.MovementTypeOUT, Quantity: d("6")},
	}
	qty, err := inventory.Replay(movs)
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("1")))
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a $100 + 10 u a $200 = 20 u a $150
	got := inventory.CostCalculator(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), "obtenido %s", got)

	// sin existencia previa toma el costo del ingreso
	got = inventory.CostCalculator(decimal.Zero, d("100"), d("4"), d("80"))
	assert.True(t, got.Equal(d("80")), "obtenido %s", got)
}
