package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `id, company_id, client_id, type, number, invoice_letter, subtotal, tax, total, notes,
	status, cae, cae_expires_at, idempotency_key, created_at, updated_at`

const insertDocumentItem = `
	INSERT INTO document_items (id, document_id, position, product_id, description, quantity, unit_price, subtotal)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// DocumentRepo persistencia de comprobantes (facturas, remitos, presupuestos) e ítems.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create inserta cabecera e ítems en un batch. Número o Idempotency-Key repetidos
// en la empresa: domain.ErrDuplicate.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO documents (id, company_id, client_id, type, number, invoice_letter, subtotal, tax, total, notes,
		                       status, cae, cae_expires_at, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		d.ID, d.CompanyID, d.ClientID, d.Type, d.Number, d.InvoiceLetter, d.Subtotal, d.Tax, d.Total, d.Notes,
		d.Status, d.CAE, d.CAEExpiresAt, d.IdempotencyKey, d.CreatedAt, d.UpdatedAt,
	)
	for _, it := range d.Items {
		b.Queue(insertDocumentItem, it.ID, d.ID, it.Position, nullIfEmpty(it.ProductID),
			it.Description, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			switch {
			case isUniqueViolation(err):
				return domain.ErrDuplicate
			case isForeignKeyViolation(err), isInvalidID(err):
				return fmt.Errorf("%w: cliente o producto inexistente", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return br.Close()
}

// GetByID devuelve el comprobante con ítems ordenados por posición.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; los ítems se leen con el lock tomado.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE company_id = $1 AND idempotency_key = $2`, companyID, key)
}

// List solo cabeceras, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE company_id = $1
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4 = '' OR client_id::text = $4)
		ORDER BY created_at DESC, seq DESC
		LIMIT NULLIF($5::int, 0) OFFSET $6`,
		f.CompanyID, f.Type, f.Status, f.ClientID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return list, nil
}

func (r *DocumentRepo) UpdateHeader(ctx context.Context, d *entity.Document) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents SET client_id = $2, number = $3, invoice_letter = $4, subtotal = $5, tax = $6,
		       total = $7, notes = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		d.ID, d.ClientID, d.Number, d.InvoiceLetter, d.Subtotal, d.Tax, d.Total, d.Notes, d.Status, d.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) SetAuthorization(ctx context.Context, id, cae string, expiresAt time.Time, letter, status string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents SET cae = $2, cae_expires_at = $3, invoice_letter = $4, status = $5, updated_at = now()
		WHERE id = $1`,
		id, cae, expiresAt, letter, status,
	)
	if err != nil {
		return fmt.Errorf("authorize document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) InsertItem(ctx context.Context, it *entity.DocumentItem) error {
	_, err := r.q.Exec(ctx, insertDocumentItem, it.ID, it.DocumentID, it.Position, nullIfEmpty(it.ProductID),
		it.Description, it.Quantity, it.UnitPrice, it.Subtotal)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err), isInvalidID(err):
			return fmt.Errorf("%w: producto inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert document item: %w", err)
	}
	return nil
}

func (r *DocumentRepo) UpdateItem(ctx context.Context, it *entity.DocumentItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE document_items SET product_id = $2, description = $3, quantity = $4, unit_price = $5, subtotal = $6
		WHERE id = $1`,
		it.ID, nullIfEmpty(it.ProductID), it.Description, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return fmt.Errorf("%w: producto inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update document item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) DeleteItemsFrom(ctx context.Context, documentID string, fromPosition int) error {
	_, err := r.q.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1 AND position >= $2`, documentID, fromPosition)
	if err != nil {
		return fmt.Errorf("delete document items: %w", err)
	}
	return nil
}

// Delete elimina el comprobante; los ítems caen por CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Document, error) {
	var d *entity.Document
	rows, err := r.q.Query(ctx, query, args...)
	if err == nil {
		d, err = pgx.CollectOneRow(rows, scanDocument)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	rows, err = r.q.Query(ctx, `
		SELECT id, document_id, position, COALESCE(product_id::text, ''), description, quantity, unit_price, subtotal
		FROM document_items WHERE document_id = $1 ORDER BY position`, d.ID)
	if err != nil {
		return nil, fmt.Errorf("list document items: %w", err)
	}
	d.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DocumentItem, error) {
		var it entity.DocumentItem
		err := row.Scan(&it.ID, &it.DocumentID, &it.Position, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Subtotal)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan document item: %w", err)
	}
	return d, nil
}

func scanDocument(row pgx.CollectableRow) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(&d.ID, &d.CompanyID, &d.ClientID, &d.Type, &d.Number, &d.InvoiceLetter, &d.Subtotal, &d.Tax,
		&d.Total, &d.Notes, &d.Status, &d.CAE, &d.CAEExpiresAt, &d.IdempotencyKey, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}
