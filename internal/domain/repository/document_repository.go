package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// DocumentFilter criterios de listado de comprobantes.
type DocumentFilter struct {
	CompanyID string
	Type      string
	Status    string
	ClientID  string
	Limit     int
	Offset    int
}

// DocumentRepository define el puerto de persistencia para Document y sus ítems.
type DocumentRepository interface {
	// Create persiste cabecera e ítems. Devuelve domain.ErrDuplicate si el número
	// o la Idempotency-Key ya existen en la empresa.
	Create(ctx context.Context, doc *entity.Document) error
	// GetByID devuelve el comprobante con ítems ordenados por posición, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	// UpdateHeader persiste los campos escalares y totales.
	UpdateHeader(ctx context.Context, doc *entity.Document) error
	// SetAuthorization guarda CAE, vencimiento, letra y nuevo estado.
	SetAuthorization(ctx context.Context, id, cae string, expiresAt time.Time, letter, status string) error
	InsertItem(ctx context.Context, item *entity.DocumentItem) error
	UpdateItem(ctx context.Context, item *entity.DocumentItem) error
	// DeleteItemsFrom elimina los ítems con posición >= fromPosition.
	DeleteItemsFrom(ctx context.Context, documentID string, fromPosition int) error
	Delete(ctx context.Context, id string) error
}
