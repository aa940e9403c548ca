package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
)

// apiError error con status y código propios, para fallos que no vienen del dominio
// (token ausente, body ilegible, validación).
type apiError struct {
	status  int
	code    string
	message string
	details interface{}
}

func (e *apiError) Error() string { return e.message }

func newAPIError(status int, code, message string) *apiError {
	return &apiError{status: status, code: code, message: message}
}

// errorMapping tabla única de errores de dominio a status HTTP y código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusBadRequest, "EMAIL_ALREADY_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrLastUser, fiber.StatusBadRequest, "LAST_USER"},
	{domain.ErrCategoryInUse, fiber.StatusBadRequest, "CATEGORY_IN_USE"},
	{domain.ErrConflict, fiber.StatusBadRequest, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrDemoDisabled, fiber.StatusForbidden, "DEMO_DISABLED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrTenantNotFound, fiber.StatusNotFound, "TENANT_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrRequestInProgress, fiber.StatusConflict, "REQUEST_IN_PROGRESS"},
}

// errorStatus traduce un error a status y código. Lo no mapeado es 500 INTERNAL.
func errorStatus(err error) (int, string) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status, ae.code
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, "BODY_TOO_LARGE"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, "BAD_REQUEST"
		}
		return fe.Code, "INTERNAL"
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError escribe el cuerpo de error estándar. En los 500 el mensaje es genérico y el
// detalle del error solo se expone si ExposeErrors está activo (fuera de producción).
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	body := dto.ErrorResponse{Error: err.Error(), Code: code}

	var ae *apiError
	if errors.As(err, &ae) {
		body.Details = ae.details
	}
	if status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		body.Error = "error interno del servidor"
		if exposeErrors(c) {
			body.Details = err.Error()
		}
	}
	return c.Status(status).JSON(body)
}

// NewErrorHandler handler de errores de Fiber: rutas inexistentes, panics recuperados y
// cualquier error que un handler devuelva sin escribir respuesta.
func NewErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, err)
	}
}
