// Package documents gestiona facturas, remitos y presupuestos con sus ítems.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/application/idempotency"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/fiscal"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

const idempotencyScope = "comprobante"

var ivaRate = decimal.RequireFromString(afip.IVARate)

// DocumentUseCase casos de uso de comprobantes.
type DocumentUseCase struct {
	txRunner    DocumentTxRunner
	docRepo     repository.DocumentRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
	authorizer  Authorizer
	guard       *idempotency.Guard
	log         *logger.Logger
	now         func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner DocumentTxRunner,
	docRepo repository.DocumentRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	authorizer Authorizer,
	guard *idempotency.Guard,
	log *logger.Logger,
) *DocumentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentUseCase{
		txRunner:    txRunner,
		docRepo:     docRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		authorizer:  authorizer,
		guard:       guard,
		log:         log.WithComponent("comprobantes"),
		now:         time.Now,
	}
}

// CreateDocument crea cabecera e ítems en una transacción. El bool indica repetición por Idempotency-Key.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, tc domain.TenantContext, in dto.CreateDocumentRequest) (*dto.DocumentResponse, bool, error) {
	docType := strings.TrimSpace(in.Type)
	if !entity.IsValidDocumentType(docType) {
		return nil, false, fmt.Errorf("%w: tipo de comprobante %q", domain.ErrInvalidInput, in.Type)
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = entity.DocumentStatusDraft
	}
	if !entity.IsValidDocumentStatus(status) {
		return nil, false, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, false, err
	}
	client, err := uc.loadClient(ctx, tc, in.ClientID)
	if err != nil {
		return nil, false, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if prev, err := uc.findReplay(ctx, tc, key); err != nil || prev != nil {
			return prev, prev != nil, err
		}
		release, err := uc.guard.Acquire(ctx, idempotencyScope, tc.CompanyID, key)
		if err != nil {
			return nil, false, err
		}
		defer release()
		if prev, err := uc.findReplay(ctx, tc, key); err != nil || prev != nil {
			return prev, prev != nil, err
		}
	}

	now := uc.now()
	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = documentNumber(docType, now)
	}
	doc := &entity.Document{
		ID:             uuid.New().String(),
		CompanyID:      tc.CompanyID,
		ClientID:       client.ID,
		Type:           docType,
		Number:         number,
		Notes:          strings.TrimSpace(in.Notes),
		Status:         status,
		IdempotencyKey: key,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].DocumentID = doc.ID
	}
	doc.Items = items
	applyTotals(doc)
	if docType == entity.DocumentTypeInvoice {
		if doc.InvoiceLetter, err = uc.invoiceLetter(ctx, tc.CompanyID, client); err != nil {
			return nil, false, err
		}
	}

	err = uc.txRunner.RunDocument(ctx, func(docRepo repository.DocumentRepository) error {
		return docRepo.Create(ctx, doc)
	})
	if err != nil {
		if key != "" && errors.Is(err, domain.ErrDuplicate) {
			if prev, rerr := uc.findReplay(ctx, tc, key); rerr == nil && prev != nil {
				return prev, true, nil
			}
		}
		return nil, false, fmt.Errorf("crear comprobante: %w", err)
	}

	uc.log.Info().
		Str("company_id", tc.CompanyID).
		Str("document_id", doc.ID).
		Str("type", doc.Type).
		Str("number", doc.Number).
		Msg("comprobante creado")

	doc.Client = client
	out := dto.FromDocument(doc)
	return &out, false, nil
}

// UpdateDocument aplica los campos presentes. Si vienen ítems se diffean por posición
// contra los guardados y se recalculan totales, todo en la misma transacción.
func (uc *DocumentUseCase) UpdateDocument(ctx context.Context, tc domain.TenantContext, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	var desired []entity.DocumentItem
	if in.Items != nil {
		var err error
		if desired, err = buildItems(*in.Items); err != nil {
			return nil, err
		}
	}
	if in.Status != nil && !entity.IsValidDocumentStatus(*in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
	}
	var number string
	if in.Number != nil {
		if number = strings.TrimSpace(*in.Number); number == "" {
			return nil, fmt.Errorf("%w: número vacío", domain.ErrInvalidInput)
		}
	}
	var client *entity.Client
	var letter string
	if in.ClientID != nil {
		var err error
		if client, err = uc.loadClient(ctx, tc, *in.ClientID); err != nil {
			return nil, err
		}
		if letter, err = uc.invoiceLetter(ctx, tc.CompanyID, client); err != nil {
			return nil, err
		}
	}

	var doc *entity.Document
	err := uc.txRunner.RunDocument(ctx, func(docRepo repository.DocumentRepository) error {
		var err error
		doc, err = docRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener comprobante: %w", err)
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if err := tc.EnsureOwner(doc.CompanyID); err != nil {
			return err
		}
		if desired != nil && doc.IsLocked() {
			return fmt.Errorf("%w: el comprobante %s no admite cambios de ítems", domain.ErrConflict, doc.Status)
		}
		if in.Status != nil && doc.Status == entity.DocumentStatusCancelled && *in.Status != entity.DocumentStatusCancelled {
			return fmt.Errorf("%w: el comprobante está anulado", domain.ErrConflict)
		}

		if client != nil {
			doc.ClientID = client.ID
			if doc.Type == entity.DocumentTypeInvoice {
				doc.InvoiceLetter = letter
			}
		}
		if in.Number != nil {
			doc.Number = number
		}
		if in.Notes != nil {
			doc.Notes = strings.TrimSpace(*in.Notes)
		}
		if in.Status != nil {
			doc.Status = *in.Status
		}

		if desired != nil {
			for i := range desired {
				desired[i].DocumentID = doc.ID
			}
			diff := diffItems(doc.Items, desired)
			for i := range diff.Updates {
				if err := docRepo.UpdateItem(ctx, &diff.Updates[i]); err != nil {
					return fmt.Errorf("actualizar ítem: %w", err)
				}
			}
			for i := range diff.Inserts {
				diff.Inserts[i].ID = uuid.New().String()
				if err := docRepo.InsertItem(ctx, &diff.Inserts[i]); err != nil {
					return fmt.Errorf("agregar ítem: %w", err)
				}
			}
			if diff.DeleteFrom > 0 {
				if err := docRepo.DeleteItemsFrom(ctx, doc.ID, diff.DeleteFrom); err != nil {
					return fmt.Errorf("borrar ítems: %w", err)
				}
			}
			doc.Items = desired
			applyTotals(doc)
		}

		doc.UpdatedAt = uc.now()
		if err := docRepo.UpdateHeader(ctx, doc); err != nil {
			return fmt.Errorf("actualizar comprobante: %w", err)
		}
		doc, err = docRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, doc)
}

// DeleteDocument borra el comprobante; los ítems caen en cascada.
func (uc *DocumentUseCase) DeleteDocument(ctx context.Context, tc domain.TenantContext, id string) error {
	if _, err := uc.owned(ctx, tc, id); err != nil {
		return err
	}
	if err := uc.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar comprobante: %w", err)
	}
	uc.log.Info().Str("company_id", tc.CompanyID).Str("document_id", id).Msg("comprobante eliminado")
	return nil
}

// GetDocument devuelve el comprobante con cliente e ítems.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, tc domain.TenantContext, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, doc)
}

// ListDocuments lista cabeceras de la empresa, más recientes primero.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, tc domain.TenantContext, q dto.DocumentQuery) (*dto.DocumentListResponse, error) {
	if q.Type != "" && !entity.IsValidDocumentType(q.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, q.Type)
	}
	if q.Status != "" && !entity.IsValidDocumentStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
	}
	q.DefaultPage()
	list, err := uc.docRepo.List(ctx, repository.DocumentFilter{
		CompanyID: tc.CompanyID,
		Type:      q.Type,
		Status:    q.Status,
		ClientID:  q.ClientID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar comprobantes: %w", err)
	}
	out := &dto.DocumentListResponse{
		Items: make([]dto.DocumentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(list)},
	}
	for _, d := range list {
		out.Items = append(out.Items, dto.FromDocument(d))
	}
	return out, nil
}

// ── Helpers ──

func (uc *DocumentUseCase) owned(ctx context.Context, tc domain.TenantContext, id string) (*entity.Document, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener comprobante: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(doc.CompanyID); err != nil {
		return nil, err
	}
	return doc, nil
}

// loadClient valida que el cliente exista (InvalidInput) y sea de la empresa (Forbidden).
func (uc *DocumentUseCase) loadClient(ctx context.Context, tc domain.TenantContext, clientID string) (*entity.Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: el comprobante requiere cliente", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
	}
	if err := tc.EnsureOwner(client.CompanyID); err != nil {
		return nil, err
	}
	return client, nil
}

func (uc *DocumentUseCase) invoiceLetter(ctx context.Context, companyID string, client *entity.Client) (string, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return "", domain.ErrTenantNotFound
	}
	return fiscal.DetermineInvoiceType(company.TaxCondition, client.TaxCondition), nil
}

func (uc *DocumentUseCase) findReplay(ctx context.Context, tc domain.TenantContext, key string) (*dto.DocumentResponse, error) {
	prev, err := uc.docRepo.GetByIdempotencyKey(ctx, tc.CompanyID, key)
	if err != nil {
		return nil, fmt.Errorf("buscar comprobante por Idempotency-Key: %w", err)
	}
	if prev == nil {
		return nil, nil
	}
	uc.log.Info().Str("document_id", prev.ID).Str("key", key).Msg("comprobante repetido, se devuelve el existente")
	return uc.toResponse(ctx, prev)
}

func (uc *DocumentUseCase) toResponse(ctx context.Context, doc *entity.Document) (*dto.DocumentResponse, error) {
	if doc.ClientID != "" && doc.Client == nil {
		client, err := uc.clientRepo.GetByID(ctx, doc.ClientID)
		if err != nil {
			return nil, fmt.Errorf("obtener cliente del comprobante: %w", err)
		}
		doc.Client = client
	}
	out := dto.FromDocument(doc)
	return &out, nil
}

// buildItems valida las líneas y las numera desde 1.
func buildItems(in []dto.DocumentItemRequest) ([]entity.DocumentItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el comprobante no tiene ítems", domain.ErrInvalidInput)
	}
	items := make([]entity.DocumentItem, 0, len(in))
	for i, it := range in {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			return nil, fmt.Errorf("%w: ítem %d sin descripción", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		items = append(items, entity.DocumentItem{
			Position:    i + 1,
			ProductID:   strings.TrimSpace(it.ProductID),
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Quantity.Mul(it.UnitPrice).Round(2),
		})
	}
	return items, nil
}

func applyTotals(doc *entity.Document) {
	subtotal := decimal.Zero
	for _, it := range doc.Items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	doc.Subtotal = subtotal
	doc.Tax = subtotal.Mul(ivaRate).Round(2)
	doc.Total = doc.Subtotal.Add(doc.Tax)
}

// documentNumber prefijo por tipo (FC, RM, PR) y 8 dígitos del timestamp.
func documentNumber(docType string, t time.Time) string {
	return fmt.Sprintf("%s-%08d", entity.DocumentNumberPrefix[docType], t.UnixMilli()%100_000_000)
}
