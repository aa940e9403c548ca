package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `product_id, quantity, min_quantity, max_quantity, location, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create inserta la fila de stock de un producto.
func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (`+stockColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ProductID, s.Quantity, s.MinQuantity, s.MaxQuantity, s.Location, s.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: producto inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Get obtiene el stock actual de un producto.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stock WHERE product_id = $1`, productID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stock WHERE product_id = $1 FOR UPDATE`, productID)
}

func (r *StockRepo) SetQuantity(ctx context.Context, productID string, qty decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock SET quantity = $2, updated_at = now() WHERE product_id = $1`, productID, qty)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) UpdateThresholds(ctx context.Context, productID string, minQty, maxQty decimal.Decimal, location string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock SET min_quantity = $2, max_quantity = $3, location = $4, updated_at = now()
		WHERE product_id = $1`,
		productID, minQty, maxQty, location,
	)
	if err != nil {
		return fmt.Errorf("update stock thresholds: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Decrement resta en una sola sentencia condicional: el UPDATE toma el lock de la
// fila y reevalúa quantity >= $2, así dos ventas concurrentes no pueden dejarla negativa.
func (r *StockRepo) Decrement(ctx context.Context, productID string, qty decimal.Decimal) (decimal.Decimal, error) {
	var left decimal.Decimal
	err := r.q.QueryRow(ctx, `
		UPDATE stock SET quantity = quantity - $2, updated_at = now()
		WHERE product_id = $1 AND quantity >= $2
		RETURNING quantity`,
		productID, qty,
	).Scan(&left)
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return decimal.Zero, fmt.Errorf("decrement stock: %w", err)
	}
	return left, nil
}

// ListByCompany junta stock y producto; lowOnly filtra quantity <= min_quantity.
func (r *StockRepo) ListByCompany(ctx context.Context, companyID string, lowOnly bool) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.product_id, s.quantity, s.min_quantity, s.max_quantity, s.location, s.updated_at,
		       p.company_id, p.code, p.name, p.unit
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE p.company_id = $1 AND (NOT $2 OR s.quantity <= s.min_quantity)
		ORDER BY lower(p.name), p.id`,
		companyID, lowOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockLevel, error) {
		var l entity.StockLevel
		err := row.Scan(&l.ProductID, &l.Quantity, &l.MinQuantity, &l.MaxQuantity, &l.Location, &l.UpdatedAt,
			&l.CompanyID, &l.ProductCode, &l.ProductName, &l.Unit)
		return &l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stock: %w", err)
	}
	return list, nil
}

func (r *StockRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ProductID, &s.Quantity, &s.MinQuantity, &s.MaxQuantity, &s.Location, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}
