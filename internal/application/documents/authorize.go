package documents

import (
	"context"
	"fmt"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// AuthorizeDocument obtiene el CAE de una factura en borrador y la pasa a SENT.
func (uc *DocumentUseCase) AuthorizeDocument(ctx context.Context, tc domain.TenantContext, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := checkAuthorizable(doc); err != nil {
		return nil, err
	}
	letter := doc.InvoiceLetter
	if letter == "" {
		client, err := uc.clientRepo.GetByID(ctx, doc.ClientID)
		if err != nil {
			return nil, fmt.Errorf("obtener cliente: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("%w: la factura no tiene cliente", domain.ErrConflict)
		}
		if letter, err = uc.invoiceLetter(ctx, tc.CompanyID, client); err != nil {
			return nil, err
		}
	}

	auth, err := uc.authorizer.SimulateAuthorization(ctx)
	if err != nil {
		return nil, fmt.Errorf("autorizar comprobante: %w", err)
	}

	err = uc.txRunner.RunDocument(ctx, func(docRepo repository.DocumentRepository) error {
		locked, err := docRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener comprobante: %w", err)
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		// Otra solicitud pudo autorizarla mientras se esperaba el CAE.
		if err := checkAuthorizable(locked); err != nil {
			return err
		}
		if err := docRepo.SetAuthorization(ctx, id, auth.CAE, auth.ExpiresAt, letter, entity.DocumentStatusSent); err != nil {
			return fmt.Errorf("guardar CAE: %w", err)
		}
		doc, err = docRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", tc.CompanyID).
		Str("document_id", id).
		Str("cae", auth.CAE).
		Str("letter", letter).
		Msg("factura autorizada")
	return uc.toResponse(ctx, doc)
}

func checkAuthorizable(doc *entity.Document) error {
	if doc.Type != entity.DocumentTypeInvoice {
		return fmt.Errorf("%w: solo se autorizan facturas", domain.ErrConflict)
	}
	if doc.Status != entity.DocumentStatusDraft {
		return fmt.Errorf("%w: la factura está en estado %s", domain.ErrConflict, doc.Status)
	}
	return nil
}
