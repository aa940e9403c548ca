package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

// CompanyUseCase perfil de la empresa del actor. El alta se hace en el registro.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: time.Now}
}

// Get obtiene la empresa del contexto.
func (uc *CompanyUseCase) Get(ctx context.Context, tc domain.TenantContext) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, tc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrTenantNotFound
	}
	out := dto.FromCompany(company)
	return &out, nil
}

// Update modifica el perfil. Solo administradores; la CUIT no cambia.
func (uc *CompanyUseCase) Update(ctx context.Context, tc domain.TenantContext, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !tc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, tc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrTenantNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.TaxCondition != nil {
		if !afip.ValidCompanyTaxConditions[*in.TaxCondition] {
			return nil, fmt.Errorf("%w: condición fiscal %q no admitida para la empresa", domain.ErrInvalidInput, *in.TaxCondition)
		}
		company.TaxCondition = *in.TaxCondition
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	if in.PointOfSale != nil {
		if *in.PointOfSale < 1 {
			return nil, fmt.Errorf("%w: punto de venta inválido", domain.ErrInvalidInput)
		}
		company.PointOfSale = *in.PointOfSale
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("actualizar empresa: %w", err)
	}
	out := dto.FromCompany(company)
	return &out, nil
}
