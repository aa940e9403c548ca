package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/memory"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	uc    *StockUseCase
	tc    domain.TenantContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	ctx := context.Background()
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{ID: "co-1", CUIT: "20123456786", CreatedAt: time.Now()}))
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{ID: "co-2", CUIT: "30712345671", CreatedAt: time.Now()}))
	uc := NewStockUseCase(store, r.Products, r.Stock, r.Movements, logger.Nop())
	return &fixture{store: store, uc: uc, tc: domain.TenantContext{CompanyID: "co-1", UserID: "u-1", Role: entity.RoleAdmin}}
}

func (f *fixture) addProduct(t *testing.T, id, companyID, cost string, stock *entity.Stock) {
	t.Helper()
	ctx := context.Background()
	r := f.store.Repos()
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: id, CompanyID: companyID, Code: "C-" + id, Name: "Producto " + id,
		Price: dec("100"), Cost: dec(cost), Unit: entity.DefaultUnit, CreatedAt: time.Now(),
	}))
	if stock != nil {
		stock.ProductID = id
		require.NoError(t, r.Stock.Create(ctx, stock))
	}
}

func (f *fixture) quantityOf(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	st, err := f.store.Repos().Stock.Get(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st.Quantity
}

func TestAdjustStock_TiposDeMovimiento(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		quantity string
		want     string
	}{
		{"ingreso suma", entity.MovementTypeIN, "4", "14"},
		{"egreso resta", entity.MovementTypeOUT, "3.5", "6.5"},
		{"egreso total", entity.MovementTypeOUT, "10", "0"},
		{"ajuste fija el valor", entity.MovementTypeADJUSTMENT, "2", "2"},
		{"ajuste a cero", entity.MovementTypeADJUSTMENT, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addProduct(t, "p-1", "co-1", "10", &entity.Stock{Quantity: dec("10")})

			resp, err := f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
				ProductID: "p-1", Type: tt.typ, Quantity: dec(tt.quantity), Reason: "conteo",
			})
			require.NoError(t, err)
			assert.True(t, resp.Stock.Quantity.Equal(dec(tt.want)), "stock %s", resp.Stock.Quantity)
			assert.True(t, f.quantityOf(t, "p-1").Equal(dec(tt.want)))
			assert.Equal(t, tt.typ, resp.Movement.Type)
			assert.True(t, resp.Movement.PreviousQuantity.Equal(dec("10")))
			assert.True(t, resp.Movement.NewQuantity.Equal(dec(tt.want)))
			assert.Equal(t, "conteo", resp.Movement.Reason)
			assert.Equal(t, "u-1", resp.Movement.UserID)
		})
	}
}

func TestAdjustStock_EgresoMayorAlStockFalla(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "10", &entity.Stock{Quantity: dec("2")})

	_, err := f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
		ProductID: "p-1", Type: entity.MovementTypeOUT, Quantity: dec("3"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantityOf(t, "p-1").Equal(dec("2")))

	movs, err := f.store.Repos().Movements.ListByProduct(context.Background(), "p-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestAdjustStock_EntradaInvalida(t *testing.T) {
	cost := dec("5")
	negative := dec("-1")
	tests := []struct {
		name string
		in   dto.StockAdjustRequest
	}{
		{"sin producto", dto.StockAdjustRequest{Type: entity.MovementTypeIN, Quantity: dec("1")}},
		{"tipo desconocido", dto.StockAdjustRequest{ProductID: "p-1", Type: "MOVE", Quantity: dec("1")}},
		{"ingreso cero", dto.StockAdjustRequest{ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("0")}},
		{"egreso negativo", dto.StockAdjustRequest{ProductID: "p-1", Type: entity.MovementTypeOUT, Quantity: dec("-2")}},
		{"ajuste negativo", dto.StockAdjustRequest{ProductID: "p-1", Type: entity.MovementTypeADJUSTMENT, Quantity: dec("-2")}},
		{"costo en egreso", dto.StockAdjustRequest{ProductID: "p-1", Type: entity.MovementTypeOUT, Quantity: dec("1"), UnitCost: &cost}},
		{"costo negativo", dto.StockAdjustRequest{ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("1"), UnitCost: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addProduct(t, "p-1", "co-1", "10", &entity.Stock{Quantity: dec("2")})
			_, err := f.uc.AdjustStock(context.Background(), f.tc, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAdjustStock_ProductoAjenoOInexistente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-otro", "co-2", "10", &entity.Stock{Quantity: dec("2")})

	_, err := f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
		ProductID: "p-otro", Type: entity.MovementTypeIN, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.quantityOf(t, "p-otro").Equal(dec("2")))

	_, err = f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
		ProductID: "no-existe", Type: entity.MovementTypeIN, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock_CreaFilaDeStockSiFalta(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "0", nil)

	resp, err := f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
		ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("7"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Stock.Quantity.Equal(dec("7")))
	assert.True(t, resp.Movement.PreviousQuantity.IsZero())
	assert.True(t, f.quantityOf(t, "p-1").Equal(dec("7")))
}

func TestAdjustStock_IngresoConCostoRecalculaPromedio(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "10", &entity.Stock{Quantity: dec("10")})
	unitCost := dec("20")

	_, err := f.uc.AdjustStock(context.Background(), f.tc, dto.StockAdjustRequest{
		ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("10"), UnitCost: &unitCost,
	})
	require.NoError(t, err)

	p, err := f.store.Repos().Products.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(dec("15")), "costo %s", p.Cost)
}

// interleavedProducts ejecuta before una sola vez, justo después de la primera lectura
// del producto, para intercalar otra operación entre la validación y la transacción.
type interleavedProducts struct {
	repository.ProductRepository
	once   sync.Once
	before func()
}

func (r *interleavedProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	r.once.Do(r.before)
	return p, err
}

func TestAdjustStock_IngresosIntercaladosNoPierdenCosto(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "10", &entity.Stock{Quantity: dec("10")})
	ctx := context.Background()
	r := f.store.Repos()

	costA, costB := dec("20"), dec("40")
	products := &interleavedProducts{ProductRepository: r.Products}
	products.before = func() {
		_, err := f.uc.AdjustStock(ctx, f.tc, dto.StockAdjustRequest{
			ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("10"), UnitCost: &costA,
		})
		require.NoError(t, err)
	}
	ucB := NewStockUseCase(f.store, products, r.Stock, r.Movements, logger.Nop())

	_, err := ucB.AdjustStock(ctx, f.tc, dto.StockAdjustRequest{
		ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("10"), UnitCost: &costB,
	})
	require.NoError(t, err)

	// 10 @ 10, luego 10 @ 20 (15), luego 10 @ 40: (20*15 + 10*40) / 30
	assert.True(t, f.quantityOf(t, "p-1").Equal(dec("30")))
	p, err := r.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(dec("23.3333")), "costo %s", p.Cost)
}

func TestAdjustStock_LibroReconstruyeExistencia(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "0", nil)
	ctx := context.Background()
	steps := []dto.StockAdjustRequest{
		{ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("10")},
		{ProductID: "p-1", Type: entity.MovementTypeOUT, Quantity: dec("4")},
		{ProductID: "p-1", Type: entity.MovementTypeADJUSTMENT, Quantity: dec("5")},
		{ProductID: "p-1", Type: entity.MovementTypeIN, Quantity: dec("1.25")},
	}
	for _, s := range steps {
		_, err := f.uc.AdjustStock(ctx, f.tc, s)
		require.NoError(t, err)
	}

	movs, err := f.uc.ListMovements(ctx, f.tc, "p-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 4)
	// más recientes primero
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.True(t, movs[0].NewQuantity.Equal(dec("6.25")))
	assert.True(t, f.quantityOf(t, "p-1").Equal(dec("6.25")))
	for i := 0; i < len(movs)-1; i++ {
		assert.True(t, movs[i].PreviousQuantity.Equal(movs[i+1].NewQuantity))
	}
}

func TestListStock_SoloBajos(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-1", "co-1", "0", &entity.Stock{Quantity: dec("2"), MinQuantity: dec("5")})
	f.addProduct(t, "p-2", "co-1", "0", &entity.Stock{Quantity: dec("9"), MinQuantity: dec("5")})
	f.addProduct(t, "p-3", "co-1", "0", &entity.Stock{Quantity: dec("5"), MinQuantity: dec("5")})
	f.addProduct(t, "p-4", "co-2", "0", &entity.Stock{Quantity: dec("0"), MinQuantity: dec("5")})

	all, err := f.uc.ListStock(context.Background(), f.tc, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	low, err := f.uc.ListStock(context.Background(), f.tc, true)
	require.NoError(t, err)
	require.Len(t, low, 2)
	for _, s := range low {
		assert.True(t, s.LowStock)
		assert.NotEqual(t, "p-4", s.ProductID)
	}
}

func TestListMovements_ProductoAjeno(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p-otro", "co-2", "0", &entity.Stock{})

	_, err := f.uc.ListMovements(context.Background(), f.tc, "p-otro", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.ListMovements(context.Background(), f.tc, "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
