package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/application/inventory"
	"github.com/jhoicas/mostrador-api/internal/application/sales"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

func TestVentasConcurrentes_SoloUnaDescuentaStock(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	companyID := seedCompany(t, r, "20123456786")
	productID := seedProduct(t, r, companyID, "P1", "Yerba", 5)

	uc := sales.NewSaleUseCase(NewTxRunner(pool), r.Sales, r.Clients, nil, logger.Nop())
	tc := domain.TenantContext{CompanyID: companyID, Role: entity.RoleAdmin}
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = uc.CreateSale(ctx, tc, dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
			})
		}(i)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	st, err := r.Stock.Get(ctx, productID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(decimal.NewFromInt(2)), "stock final %s", st.Quantity)

	movs, err := r.Movements.ListByProduct(ctx, productID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)

	summary, err := r.Analytics.GetSalesSummary(ctx, companyID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
}

func TestIngresosConcurrentes_CostoPromedioSinPerdidas(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	productID := seedProduct(t, r, companyID, "P1", "Yerba", 10)
	require.NoError(t, r.Products.UpdateCost(ctx, productID, decimal.NewFromInt(10)))

	uc := inventory.NewStockUseCase(NewTxRunner(pool), r.Products, r.Stock, r.Movements, logger.Nop())
	tc := domain.TenantContext{CompanyID: companyID, Role: entity.RoleAdmin}

	costs := []decimal.Decimal{decimal.NewFromInt(20), decimal.NewFromInt(40)}
	var wg sync.WaitGroup
	errs := make([]error, len(costs))
	for i := range costs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.AdjustStock(ctx, tc, dto.StockAdjustRequest{
				ProductID: productID, Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(10), UnitCost: &costs[i],
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	// Según el orden: 10@10 + 10@20 + 10@40 da 23.3333; 10@10 + 10@40 + 10@20 da 21.6667.
	p, err := r.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Contains(t, []string{"23.3333", "21.6667"}, p.Cost.StringFixed(4))

	st, err := r.Stock.Get(ctx, productID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(decimal.NewFromInt(30)), "stock final %s", st.Quantity)
}

func TestStock_DecrementCondicional(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	productID := seedProduct(t, r, seedCompany(t, r, "20123456786"), "P1", "Yerba", 5)

	left, err := r.Stock.Decrement(ctx, productID, decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, left.Equal(decimal.NewFromInt(1)))

	_, err = r.Stock.Decrement(ctx, productID, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = r.Stock.Decrement(ctx, uuid.NewString(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	companyID := mustProductCompany(t, r, productID)
	low, err := r.Stock.ListByCompany(ctx, companyID, true)
	require.NoError(t, err)
	assert.Empty(t, low)

	left, err = r.Stock.Decrement(ctx, productID, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, left.IsZero())
	low, err = r.Stock.ListByCompany(ctx, companyID, true)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "P1", low[0].ProductCode)
}

func mustProductCompany(t *testing.T, r Repos, productID string) string {
	t.Helper()
	p, err := r.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CompanyID
}

func TestCategorias_NombreUnicoSinMayusculasYEnUso(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	otherID := seedCompany(t, r, "30712345671")
	now := time.Now().UTC()

	cat := &entity.Category{ID: uuid.NewString(), CompanyID: companyID, Name: "Bebidas", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Categories.Create(ctx, cat))
	err := r.Categories.Create(ctx, &entity.Category{ID: uuid.NewString(), CompanyID: companyID, Name: "BEBIDAS", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NoError(t, r.Categories.Create(ctx, &entity.Category{ID: uuid.NewString(), CompanyID: otherID, Name: "bebidas", CreatedAt: now, UpdatedAt: now}))

	productID := seedProduct(t, r, companyID, "P1", "Agua", 0)
	p, err := r.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	p.CategoryID = cat.ID
	require.NoError(t, r.Products.Update(ctx, p))

	n, err := r.Categories.CountProducts(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, r.Categories.Delete(ctx, cat.ID), domain.ErrCategoryInUse)

	p.CategoryID = ""
	require.NoError(t, r.Products.Update(ctx, p))
	require.NoError(t, r.Categories.Delete(ctx, cat.ID))
	assert.ErrorIs(t, r.Categories.Delete(ctx, cat.ID), domain.ErrNotFound)
}

func TestProductos_CodigoUnicoYBorradoConVentas(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	productID := seedProduct(t, r, companyID, "P1", "Yerba", 10)

	now := time.Now().UTC()
	err := r.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), CompanyID: companyID, Code: "P1", Name: "Otra", Unit: "unidad", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := r.Products.List(ctx, repository.ProductFilter{CompanyID: companyID, Search: "yer"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "", list[0].CategoryID)

	uc := sales.NewSaleUseCase(NewTxRunner(pool), r.Sales, r.Clients, nil, logger.Nop())
	_, _, err = uc.CreateSale(ctx, domain.TenantContext{CompanyID: companyID}, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Products.Delete(ctx, productID), domain.ErrConflict)

	missing, err := r.Products.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAnalytics_TopProductosSinLimite(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	ids := []string{
		seedProduct(t, r, companyID, "A", "Alfajor", 50),
		seedProduct(t, r, companyID, "B", "Bizcocho", 50),
		seedProduct(t, r, companyID, "C", "Caramelo", 50),
	}
	uc := sales.NewSaleUseCase(NewTxRunner(pool), r.Sales, r.Clients, nil, logger.Nop())
	tc := domain.TenantContext{CompanyID: companyID}
	for i, id := range ids {
		_, _, err := uc.CreateSale(ctx, tc, dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductID: id, Quantity: decimal.NewFromInt(int64(i + 1))}},
		})
		require.NoError(t, err)
	}

	since := time.Now().Add(-time.Hour)
	all, err := r.Analytics.GetTopProducts(ctx, companyID, since, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Caramelo", all[0].Name)
	assert.True(t, all[0].QuantitySold.Equal(decimal.NewFromInt(3)))

	top, err := r.Analytics.GetTopProducts(ctx, companyID, since, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestDocumentos_ItemsYNumeroUnico(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	now := time.Now().UTC()
	client := &entity.Client{
		ID: uuid.NewString(), CompanyID: companyID, Name: "Cliente", DocumentType: entity.DocumentTypeSinIdentificar,
		TaxCondition: entity.TaxConditionConsumidorFinal, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Clients.Create(ctx, client))

	doc := &entity.Document{
		ID: uuid.NewString(), CompanyID: companyID, ClientID: client.ID, Type: entity.DocumentTypeInvoice,
		Number: "FC-00000001", Status: entity.DocumentStatusDraft, CreatedAt: now, UpdatedAt: now,
		Items: []entity.DocumentItem{
			{ID: uuid.NewString(), Position: 2, Description: "Segundo", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5), Subtotal: decimal.NewFromInt(5)},
			{ID: uuid.NewString(), Position: 1, Description: "Primero", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
		},
	}
	require.NoError(t, r.Documents.Create(ctx, doc))

	got, err := r.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Primero", got.Items[0].Description)
	assert.Nil(t, got.CAEExpiresAt)

	dup := *doc
	dup.ID = uuid.NewString()
	dup.Items = nil
	assert.ErrorIs(t, r.Documents.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, r.Documents.DeleteItemsFrom(ctx, doc.ID, 2))
	exp := now.Add(10 * 24 * time.Hour)
	require.NoError(t, r.Documents.SetAuthorization(ctx, doc.ID, "71234567890123", exp, "B", entity.DocumentStatusSent))
	got, err = r.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, "B", got.InvoiceLetter)
	require.NotNil(t, got.CAEExpiresAt)

	assert.ErrorIs(t, r.Clients.Delete(ctx, client.ID), domain.ErrConflict)
	list, err := r.Documents.List(ctx, repository.DocumentFilter{CompanyID: companyID, Type: entity.DocumentTypeInvoice})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCuentas_EmailUnicoYUltimoUsuario(t *testing.T) {
	pool := testDB(t)
	r := NewRepos(pool)
	ctx := context.Background()
	companyID := seedCompany(t, r, "20123456786")
	now := time.Now().UTC()

	u := &entity.User{ID: uuid.NewString(), CompanyID: companyID, Email: "ana@uno.com", PasswordHash: "x", Name: "Ana", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Users.Create(ctx, u))
	err := r.Users.Create(ctx, &entity.User{ID: uuid.NewString(), CompanyID: companyID, Email: "ANA@uno.com", PasswordHash: "x", Name: "Otra", Role: entity.RoleVendedor, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	found, err := r.Users.GetByEmail(ctx, "Ana@Uno.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	err = NewTxRunner(pool).RunAccounts(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		c, err := companies.GetForUpdate(ctx, companyID)
		require.NoError(t, err)
		require.NotNil(t, c)
		n, err := users.CountByCompany(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return domain.ErrLastUser
	})
	assert.ErrorIs(t, err, domain.ErrLastUser)

	first, err := r.Companies.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, companyID, first.ID)
}
