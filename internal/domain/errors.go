package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	ErrTenantNotFound    = errors.New("no hay empresas registradas")
	ErrDemoDisabled      = errors.New("modo demo deshabilitado")
	ErrLastUser          = errors.New("no se puede eliminar el último usuario de la empresa")
	ErrCategoryInUse     = errors.New("la categoría tiene productos asociados")
	ErrRequestInProgress = errors.New("ya hay una solicitud en proceso con la misma Idempotency-Key")
)
