package documents

import (
	"context"

	"github.com/jhoicas/mostrador-api/internal/domain/fiscal"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// DocumentTxRunner ejecuta fn en una transacción sobre el comprobante y sus ítems.
type DocumentTxRunner interface {
	RunDocument(ctx context.Context, fn func(docRepo repository.DocumentRepository) error) error
}

// Authorizer obtiene el CAE de una factura (simulado en fiscal.Authorizer).
type Authorizer interface {
	SimulateAuthorization(ctx context.Context) (fiscal.Authorization, error)
}
