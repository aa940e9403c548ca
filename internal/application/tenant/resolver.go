// Package tenant resuelve la empresa que actúa en cada request.
package tenant

import (
	"context"
	"fmt"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// Identity datos de sesión ya verificados (JWT). Nil = request sin sesión.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// Resolver convierte una identidad opcional en un domain.TenantContext.
type Resolver struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	demo      bool
}

// NewResolver construye el resolver. demo habilita el fallback a la primera empresa
// cuando no hay sesión; quien lo construye decide (nunca true en producción).
func NewResolver(companies repository.CompanyRepository, users repository.UserRepository, demo bool) *Resolver {
	return &Resolver{companies: companies, users: users, demo: demo}
}

// DemoEnabled indica si el fallback de demostración está activo.
func (r *Resolver) DemoEnabled() bool {
	return r.demo
}

// Resolve aplica, en orden:
//  1. sesión con company_id: la empresa debe existir (si no, ErrTenantNotFound)
//  2. sin sesión y modo demo: primera empresa por fecha de alta, actuando como admin
//  3. sin sesión ni demo: ErrUnauthorized
func (r *Resolver) Resolve(ctx context.Context, id *Identity) (domain.TenantContext, error) {
	if id != nil && id.CompanyID != "" {
		company, err := r.companies.GetByID(ctx, id.CompanyID)
		if err != nil {
			return domain.TenantContext{}, fmt.Errorf("resolver empresa: %w", err)
		}
		if company == nil {
			return domain.TenantContext{}, domain.ErrTenantNotFound
		}
		return domain.TenantContext{CompanyID: company.ID, UserID: id.UserID, Role: id.Role}, nil
	}
	if !r.demo {
		return domain.TenantContext{}, domain.ErrUnauthorized
	}

	company, err := r.companies.First(ctx)
	if err != nil {
		return domain.TenantContext{}, fmt.Errorf("resolver empresa demo: %w", err)
	}
	if company == nil {
		return domain.TenantContext{}, domain.ErrTenantNotFound
	}
	tc := domain.TenantContext{CompanyID: company.ID, Role: entity.RoleAdmin, Demo: true}
	user, err := r.users.FirstByCompany(ctx, company.ID)
	if err != nil {
		return domain.TenantContext{}, fmt.Errorf("resolver usuario demo: %w", err)
	}
	if user != nil {
		tc.UserID = user.ID
	}
	return tc, nil
}
