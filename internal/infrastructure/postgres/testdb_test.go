package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// testDB levanta PostgreSQL en un contenedor, aplica las migraciones embebidas
// y devuelve el pool. Se omite con -short o sin Docker.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("mostrador_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("no se pudo iniciar PostgreSQL (¿Docker disponible?): %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := NewMigrator(dsn, "", logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)
	require.NoError(t, m.Close())

	pool, err := NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedCompany(t *testing.T, r Repos, cuit string) string {
	t.Helper()
	now := time.Now().UTC()
	c := &entity.Company{
		ID: uuid.NewString(), Name: "Empresa " + cuit, CUIT: cuit,
		TaxCondition: entity.TaxConditionResponsableInscripto, PointOfSale: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Companies.Create(context.Background(), c))
	return c.ID
}

func seedProduct(t *testing.T, r Repos, companyID, code, name string, stock int64) string {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.NewString(), CompanyID: companyID, Code: code, Name: name,
		Price: decimal.NewFromInt(100), Unit: entity.DefaultUnit, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Products.Create(ctx, p))
	require.NoError(t, r.Stock.Create(ctx, &entity.Stock{ProductID: p.ID, Quantity: decimal.NewFromInt(stock), UpdatedAt: now}))
	return p.ID
}
