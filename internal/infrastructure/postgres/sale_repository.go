package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, COALESCE(client_id::text, ''), user_id, number, subtotal, tax, total,
	payment_method, status, idempotency_key, created_at`

// SaleRepo persistencia de ventas e ítems (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera e ítems en un único batch.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO sales (id, company_id, client_id, user_id, number, subtotal, tax, total,
		                   payment_method, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.CompanyID, nullIfEmpty(s.ClientID), s.UserID, s.Number, s.Subtotal, s.Tax, s.Total,
		s.PaymentMethod, s.Status, s.IdempotencyKey, s.CreatedAt,
	)
	for i, it := range s.Items {
		b.Queue(`
			INSERT INTO sale_items (id, sale_id, position, product_id, quantity, unit_price, list_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, s.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.ListPrice, it.Subtotal,
		)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			switch {
			case isUniqueViolation(err):
				return domain.ErrDuplicate
			case isForeignKeyViolation(err):
				return fmt.Errorf("%w: producto o cliente inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert sale: %w", err)
		}
	}
	return br.Close()
}

// GetByID devuelve la venta con sus ítems y los datos de producto.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND idempotency_key = $2`, companyID, key)
}

// ListByCompany solo cabeceras, más recientes primero.
func (r *SaleRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE company_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT NULLIF($2::int, 0) OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanSale)
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return list, nil
}

// TransitionStatus cambia el estado solo si el actual es from.
func (r *SaleRepo) TransitionStatus(ctx context.Context, id, from, to string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: la venta no está en estado %s", domain.ErrConflict, from)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Sale, error) {
	var s *entity.Sale
	rows, err := r.q.Query(ctx, query, args...)
	if err == nil {
		s, err = pgx.CollectOneRow(rows, scanSale)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.code, p.name, si.quantity, si.unit_price, si.list_price, si.subtotal
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleItem, error) {
		var it entity.SaleItem
		err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.ListPrice, &it.Subtotal)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan sale item: %w", err)
	}
	return items, nil
}

func scanSale(row pgx.CollectableRow) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CompanyID, &s.ClientID, &s.UserID, &s.Number, &s.Subtotal, &s.Tax, &s.Total,
		&s.PaymentMethod, &s.Status, &s.IdempotencyKey, &s.CreatedAt)
	return &s, err
}
