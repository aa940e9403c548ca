package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

// ClientUseCase aplica reglas de negocio para clientes de la empresa.
type ClientUseCase struct {
	repo repository.ClientRepository
	now  func() time.Time
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, now: time.Now}
}

// Create da de alta un cliente. Sin tipo de documento se asume CUIT si el tax id es una CUIT
// válida y DNI en otro caso; sin condición fiscal, consumidor final.
func (uc *ClientUseCase) Create(ctx context.Context, tc domain.TenantContext, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := uc.now()
	client := &entity.Client{
		ID:           uuid.New().String(),
		CompanyID:    tc.CompanyID,
		Name:         strings.TrimSpace(in.Name),
		TaxID:        strings.TrimSpace(in.TaxID),
		DocumentType: in.DocumentType,
		TaxCondition: in.TaxCondition,
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := normalizeClient(client); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}
	out := dto.FromClient(client)
	return &out, nil
}

// GetByID obtiene un cliente de la empresa.
func (uc *ClientUseCase) GetByID(ctx context.Context, tc domain.TenantContext, id string) (*dto.ClientResponse, error) {
	client, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromClient(client)
	return &out, nil
}

// List lista clientes por empresa, filtrando por nombre o tax id.
func (uc *ClientUseCase) List(ctx context.Context, tc domain.TenantContext, q dto.ClientQuery) (*dto.ClientListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ClientFilter{
		CompanyID: tc.CompanyID,
		Search:    strings.TrimSpace(q.Search),
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.FromClient(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	}, nil
}

// Update aplica cambios parciales.
func (uc *ClientUseCase) Update(ctx context.Context, tc domain.TenantContext, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		client.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		client.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.DocumentType != nil {
		client.DocumentType = *in.DocumentType
	}
	if in.TaxCondition != nil {
		client.TaxCondition = *in.TaxCondition
	}
	if in.Email != nil {
		client.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		client.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		client.Address = strings.TrimSpace(*in.Address)
	}
	if in.Balance != nil {
		client.Balance = *in.Balance
	}
	if err := normalizeClient(client); err != nil {
		return nil, err
	}
	client.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("actualizar cliente: %w", err)
	}
	out := dto.FromClient(client)
	return &out, nil
}

// Delete elimina el cliente. Falla con ErrConflict si tiene comprobantes emitidos.
func (uc *ClientUseCase) Delete(ctx context.Context, tc domain.TenantContext, id string) error {
	if _, err := uc.owned(ctx, tc, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar cliente: %w", err)
	}
	return nil
}

func (uc *ClientUseCase) owned(ctx context.Context, tc domain.TenantContext, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := tc.EnsureOwner(client.CompanyID); err != nil {
		return nil, err
	}
	return client, nil
}

// normalizeClient completa valores por defecto y valida la CUIT/CUIL cuando corresponde.
func normalizeClient(c *entity.Client) error {
	if c.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if c.DocumentType == "" {
		switch {
		case c.TaxID == "":
			c.DocumentType = entity.DocumentTypeSinIdentificar
		case afip.IsValidCUIT(c.TaxID):
			c.DocumentType = entity.DocumentTypeCUIT
		default:
			c.DocumentType = entity.DocumentTypeDNI
		}
	}
	if c.TaxCondition == "" {
		c.TaxCondition = entity.TaxConditionConsumidorFinal
	}
	if _, ok := afip.DocumentTypeCodes[c.DocumentType]; !ok {
		return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, c.DocumentType)
	}
	if !afip.ValidClientTaxConditions[c.TaxCondition] {
		return fmt.Errorf("%w: condición fiscal %q", domain.ErrInvalidInput, c.TaxCondition)
	}
	switch c.DocumentType {
	case entity.DocumentTypeCUIT, entity.DocumentTypeCUIL:
		if err := afip.ValidateCUIT(c.TaxID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		c.TaxID = afip.NormalizeCUIT(c.TaxID)
	}
	if c.TaxCondition == entity.TaxConditionResponsableInscripto && c.DocumentType != entity.DocumentTypeCUIT {
		return fmt.Errorf("%w: un responsable inscripto se identifica con CUIT", domain.ErrInvalidInput)
	}
	return nil
}
