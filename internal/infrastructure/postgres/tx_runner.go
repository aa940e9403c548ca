package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/documents"
	"github.com/jhoicas/mostrador-api/internal/application/inventory"
	"github.com/jhoicas/mostrador-api/internal/application/sales"
	"github.com/jhoicas/mostrador-api/internal/application/usecase"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner         = (*TxRunner)(nil)
	_ sales.SaleTxRunner         = (*TxRunner)(nil)
	_ documents.DocumentTxRunner = (*TxRunner)(nil)
	_ auth.TxRunner              = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner    = (*TxRunner)(nil)
	_ usecase.AccountsTxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción de stock: movimientos, existencias y productos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// RunSale igual que Run más el repositorio de ventas.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewStockRepository(tx), NewProductRepository(tx), NewSaleRepository(tx))
	})
}

// RunDocument transacción sobre un comprobante y sus ítems.
func (r *TxRunner) RunDocument(ctx context.Context, fn func(docRepo repository.DocumentRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDocumentRepository(tx))
	})
}

// RunAccounts transacción sobre empresas y usuarios.
func (r *TxRunner) RunAccounts(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}

// inTx inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos agrupa los repositorios sobre el pool (fuera de transacción).
type Repos struct {
	Companies  *CompanyRepo
	Users      *UserRepo
	Clients    *ClientRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Stock      *StockRepo
	Movements  *StockMovementRepo
	Sales      *SaleRepo
	Documents  *DocumentRepo
	Analytics  *AnalyticsRepo
}

// NewRepos construye todos los repositorios sobre q.
func NewRepos(q Querier) Repos {
	return Repos{
		Companies:  NewCompanyRepository(q),
		Users:      NewUserRepository(q),
		Clients:    NewClientRepository(q),
		Categories: NewCategoryRepository(q),
		Products:   NewProductRepository(q),
		Stock:      NewStockRepository(q),
		Movements:  NewStockMovementRepository(q),
		Sales:      NewSaleRepository(q),
		Documents:  NewDocumentRepository(q),
		Analytics:  NewAnalyticsRepository(q),
	}
}
