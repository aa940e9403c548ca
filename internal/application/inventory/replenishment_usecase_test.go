package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

func TestGenerateReplenishmentList_PriorizaPorVentas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.store.Repos()
	f.addProduct(t, "p-1", "co-1", "4", &entity.Stock{Quantity: dec("1"), MinQuantity: dec("5"), MaxQuantity: dec("20")})
	f.addProduct(t, "p-2", "co-1", "2", &entity.Stock{Quantity: dec("0"), MinQuantity: dec("3")})
	f.addProduct(t, "p-3", "co-1", "1", &entity.Stock{Quantity: dec("50"), MinQuantity: dec("3")})

	require.NoError(t, r.Sales.Create(ctx, &entity.Sale{
		ID: "s-1", CompanyID: "co-1", Number: "VT00000001", Status: entity.SaleStatusCompleted,
		PaymentMethod: entity.PaymentEfectivo, CreatedAt: time.Now(),
		Items: []entity.SaleItem{{ID: "si-1", ProductID: "p-2", Quantity: dec("6"), UnitPrice: dec("100"), Subtotal: dec("600")}},
	}))

	uc := NewReplenishmentUseCase(r.Stock, r.Products, r.Analytics)
	list, err := uc.GenerateReplenishmentList(ctx, f.tc)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "p-2", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].UnitsSold90Days.Equal(dec("6")))
	assert.True(t, list[0].TargetStock.Equal(dec("6")), "sin máximo usa el doble del mínimo")
	assert.True(t, list[0].SuggestedOrderQty.Equal(dec("6")))
	assert.True(t, list[0].EstimatedCost.Equal(dec("12")))

	assert.Equal(t, "p-1", list[1].ProductID)
	assert.True(t, list[1].SuggestedOrderQty.Equal(dec("19")))
	assert.True(t, list[1].EstimatedCost.Equal(dec("76")))
}

func TestGenerateReplenishmentList_SinFaltantes(t *testing.T) {
	f := newFixture(t)
	r := f.store.Repos()
	f.addProduct(t, "p-1", "co-1", "4", &entity.Stock{Quantity: dec("10"), MinQuantity: dec("5")})

	list, err := NewReplenishmentUseCase(r.Stock, r.Products, r.Analytics).GenerateReplenishmentList(context.Background(), f.tc)
	require.NoError(t, err)
	assert.Empty(t, list)
}
