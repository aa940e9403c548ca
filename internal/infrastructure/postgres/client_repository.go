package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, company_id, name, tax_id, document_type, tax_condition, email, phone, address, balance, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.CompanyID, c.Name, c.TaxID, c.DocumentType, c.TaxCondition, c.Email, c.Phone, c.Address,
		c.Balance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c *entity.Client
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err == nil {
		c, err = pgx.CollectOneRow(rows, scanClient)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List filtra por nombre o tax id (ILIKE) y ordena por nombre.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE company_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR tax_id ILIKE '%' || $2 || '%')
		ORDER BY lower(name), id
		LIMIT NULLIF($3::int, 0) OFFSET $4`,
		f.CompanyID, f.Search, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanClient)
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return list, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $2, tax_id = $3, document_type = $4, tax_condition = $5,
		       email = $6, phone = $7, address = $8, balance = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.Name, c.TaxID, c.DocumentType, c.TaxCondition, c.Email, c.Phone, c.Address, c.Balance, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con domain.ErrConflict si el cliente tiene comprobantes (RESTRICT);
// sus ventas quedan sin cliente (SET NULL).
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente tiene comprobantes", domain.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanClient(row pgx.CollectableRow) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.DocumentType, &c.TaxCondition,
		&c.Email, &c.Phone, &c.Address, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}
