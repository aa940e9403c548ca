package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/memory"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var (
	tcAdmin    = domain.TenantContext{CompanyID: "co-1", UserID: "u-1", Role: entity.RoleAdmin}
	tcVendedor = domain.TenantContext{CompanyID: "co-1", UserID: "u-2", Role: entity.RoleVendedor}
	tcOtra     = domain.TenantContext{CompanyID: "co-2", UserID: "u-9", Role: entity.RoleAdmin}
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	ctx := context.Background()
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{
		ID: "co-1", Name: "Uno", CUIT: "20123456786", TaxCondition: entity.TaxConditionResponsableInscripto,
		PointOfSale: 1, CreatedAt: time.Now(),
	}))
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{
		ID: "co-2", Name: "Dos", CUIT: "30712345671", TaxCondition: entity.TaxConditionMonotributo,
		PointOfSale: 1, CreatedAt: time.Now(),
	}))
	return store
}

func newProducts(store *memory.Store) *ProductUseCase {
	r := store.Repos()
	return NewProductUseCase(store, r.Products, r.Stock, r.Categories, logger.Nop())
}

func TestCategory_NombreUnicoPorEmpresa(t *testing.T) {
	store := newStore(t)
	uc := NewCategoryUseCase(store.Repos().Categories)
	ctx := context.Background()

	_, err := uc.Create(ctx, tcAdmin, dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, tcAdmin, dto.CreateCategoryRequest{Name: "bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, tcOtra, dto.CreateCategoryRequest{Name: "Bebidas"})
	assert.NoError(t, err)
	_, err = uc.Create(ctx, tcAdmin, dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, tcAdmin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategory_BorradoBloqueadoConProductos(t *testing.T) {
	store := newStore(t)
	cats := NewCategoryUseCase(store.Repos().Categories)
	ctx := context.Background()

	cat, err := cats.Create(ctx, tcAdmin, dto.CreateCategoryRequest{Name: "Almacén"})
	require.NoError(t, err)
	p, err := newProducts(store).Create(ctx, tcAdmin, dto.CreateProductRequest{
		Code: "YERBA-1", Name: "Yerba 1kg", Price: dec("3500"), CategoryID: cat.ID,
	})
	require.NoError(t, err)

	err = cats.Delete(ctx, tcAdmin, cat.ID)
	require.ErrorIs(t, err, domain.ErrCategoryInUse)

	// categoría y producto intactos
	list, err := cats.List(ctx, tcAdmin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.CategoryID)

	_, err = newProducts(store).Update(ctx, tcAdmin, p.ID, dto.UpdateProductRequest{CategoryID: ptr("")})
	require.NoError(t, err)
	assert.NoError(t, cats.Delete(ctx, tcAdmin, cat.ID))
}

func TestCategory_Ajena(t *testing.T) {
	store := newStore(t)
	uc := NewCategoryUseCase(store.Repos().Categories)
	ctx := context.Background()
	cat, err := uc.Create(ctx, tcOtra, dto.CreateCategoryRequest{Name: "Ajena"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, tcAdmin, cat.ID, dto.UpdateCategoryRequest{Name: ptr("Mía")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, tcAdmin, cat.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, tcAdmin, "no-existe"), domain.ErrNotFound)
}

func TestProduct_CreaConStockInicial(t *testing.T) {
	store := newStore(t)
	uc := newProducts(store)
	ctx := context.Background()

	p, err := uc.Create(ctx, tcAdmin, dto.CreateProductRequest{
		Code: " GAL-01 ", Name: "Galletitas", Price: dec("850.50"), InitialStock: dec("24"),
		MinQuantity: dec("5"), MaxQuantity: dec("48"), Location: "Góndola 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "GAL-01", p.Code)
	assert.Equal(t, entity.DefaultUnit, p.Unit)
	require.NotNil(t, p.Stock)
	assert.True(t, p.Stock.Quantity.Equal(dec("24")))
	assert.False(t, p.Stock.LowStock)

	movs, err := store.Repos().Movements.ListByProduct(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, entity.MovementReasonInitialStock, movs[0].Reason)
	assert.True(t, movs[0].NewQuantity.Equal(dec("24")))

	got, err := uc.GetByID(ctx, tcAdmin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Góndola 3", got.Stock.Location)
}

func TestProduct_SinStockInicialNoRegistraMovimiento(t *testing.T) {
	store := newStore(t)
	p, err := newProducts(store).Create(context.Background(), tcAdmin, dto.CreateProductRequest{
		Code: "A", Name: "A", Price: dec("1"),
	})
	require.NoError(t, err)
	assert.True(t, p.Stock.Quantity.IsZero())
	movs, err := store.Repos().Movements.ListByProduct(context.Background(), p.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestProduct_CodigoUnicoGlobal(t *testing.T) {
	store := newStore(t)
	uc := newProducts(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, tcAdmin, dto.CreateProductRequest{Code: "X1", Name: "Uno", Price: dec("1")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, tcOtra, dto.CreateProductRequest{Code: "X1", Name: "Otro", Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el alta fallida no deja stock huérfano
	levels, err := store.Repos().Stock.ListByCompany(ctx, "co-2", false)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestProduct_EntradaInvalida(t *testing.T) {
	tests := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin código", dto.CreateProductRequest{Name: "A", Price: dec("1")}},
		{"sin nombre", dto.CreateProductRequest{Code: "A", Price: dec("1")}},
		{"precio cero", dto.CreateProductRequest{Code: "A", Name: "A"}},
		{"costo negativo", dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("1"), Cost: dec("-1")}},
		{"stock negativo", dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("1"), InitialStock: dec("-1")}},
		{"máximo menor al mínimo", dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("1"), MinQuantity: dec("10"), MaxQuantity: dec("5")}},
		{"categoría inexistente", dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("1"), CategoryID: "no-existe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newProducts(newStore(t)).Create(context.Background(), tcAdmin, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProduct_CategoriaDeOtraEmpresa(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	cat, err := NewCategoryUseCase(store.Repos().Categories).Create(ctx, tcOtra, dto.CreateCategoryRequest{Name: "Ajena"})
	require.NoError(t, err)

	_, err = newProducts(store).Create(ctx, tcAdmin, dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("1"), CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_UpdateUmbralesSinTocarCantidad(t *testing.T) {
	store := newStore(t)
	uc := newProducts(store)
	ctx := context.Background()
	p, err := uc.Create(ctx, tcAdmin, dto.CreateProductRequest{Code: "A", Name: "A", Price: dec("10"), InitialStock: dec("3")})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, tcAdmin, p.ID, dto.UpdateProductRequest{
		Name: ptr("Aceite"), Price: ptr(dec("12.5")), MinQuantity: ptr(dec("4")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aceite", upd.Name)
	assert.True(t, upd.Price.Equal(dec("12.5")))
	assert.True(t, upd.Stock.Quantity.Equal(dec("3")))
	assert.True(t, upd.Stock.LowStock)

	st, err := store.Repos().Stock.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec("3")))
	assert.True(t, st.MinQuantity.Equal(dec("4")))

	_, err = uc.Update(ctx, tcAdmin, p.ID, dto.UpdateProductRequest{Price: ptr(dec("0"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, tcOtra, p.ID, dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProduct_ListBuscaYFiltra(t *testing.T) {
	store := newStore(t)
	uc := newProducts(store)
	ctx := context.Background()
	cat, err := NewCategoryUseCase(store.Repos().Categories).Create(ctx, tcAdmin, dto.CreateCategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)

	for _, in := range []dto.CreateProductRequest{
		{Code: "LEC-1", Name: "Leche entera", Price: dec("900"), CategoryID: cat.ID},
		{Code: "LEC-2", Name: "Leche descremada", Price: dec("950"), CategoryID: cat.ID},
		{Code: "PAN-1", Name: "Pan lactal", Price: dec("1200")},
	} {
		_, err := uc.Create(ctx, tcAdmin, in)
		require.NoError(t, err)
	}
	_, err = uc.Create(ctx, tcOtra, dto.CreateProductRequest{Code: "LEC-9", Name: "Leche ajena", Price: dec("1")})
	require.NoError(t, err)

	all, err := uc.List(ctx, tcAdmin, dto.ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 20, all.Page.Limit)

	byName, err := uc.List(ctx, tcAdmin, dto.ProductQuery{Search: "leche"})
	require.NoError(t, err)
	require.Len(t, byName.Items, 2)
	assert.Equal(t, "Leche descremada", byName.Items[0].Name)

	byCode, err := uc.List(ctx, tcAdmin, dto.ProductQuery{Search: "pan-"})
	require.NoError(t, err)
	assert.Len(t, byCode.Items, 1)

	byCat, err := uc.List(ctx, tcAdmin, dto.ProductQuery{CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Len(t, byCat.Items, 2)
	for _, p := range byCat.Items {
		assert.NotNil(t, p.Stock)
	}
}

func TestProduct_DeleteAjenoEInexistente(t *testing.T) {
	store := newStore(t)
	uc := newProducts(store)
	ctx := context.Background()
	p, err := uc.Create(ctx, tcOtra, dto.CreateProductRequest{Code: "Z", Name: "Z", Price: dec("1")})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, tcAdmin, p.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, tcAdmin, "no-existe"), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, tcOtra, p.ID))
	_, err = uc.GetByID(ctx, tcOtra, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
