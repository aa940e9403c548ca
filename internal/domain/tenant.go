package domain

import "github.com/jhoicas/mostrador-api/internal/domain/entity"

// TenantContext identifica la empresa y el usuario que actúan en una operación.
// Se resuelve una vez por request y se pasa explícitamente a cada caso de uso.
type TenantContext struct {
	CompanyID string
	UserID    string
	Role      string
	// Demo indica que la empresa se eligió por el fallback de demostración, sin sesión.
	Demo bool
}

// Valid indica si el contexto tiene empresa resuelta.
func (tc TenantContext) Valid() bool {
	return tc.CompanyID != ""
}

// IsAdmin indica si el actor tiene rol administrador.
func (tc TenantContext) IsAdmin() bool {
	return tc.Role == entity.RoleAdmin
}

// EnsureOwner devuelve ErrForbidden si el recurso pertenece a otra empresa.
func (tc TenantContext) EnsureOwner(companyID string) error {
	if companyID != tc.CompanyID {
		return ErrForbidden
	}
	return nil
}
