package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/tenant"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
)

// Locals keys de la sesión y la empresa resuelta en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalTenant    = "tenant"
)

// AuthMiddleware exige un Bearer Token JWT válido y carga UserID, CompanyID y Role en c.Locals.
func AuthMiddleware(signer *jwt.Signer) fiber.Handler {
	return authenticate(signer, false)
}

// OptionalAuth valida el token si viene; sin header Authorization deja pasar el request
// sin sesión (el resolver de empresa decide si eso está permitido).
func OptionalAuth(signer *jwt.Signer) fiber.Handler {
	return authenticate(signer, true)
}

func authenticate(signer *jwt.Signer, optional bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if optional {
				return c.Next()
			}
			return writeError(c, newAPIError(fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, newAPIError(fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return writeError(c, newAPIError(fiber.StatusUnauthorized, "MISSING_TOKEN", "token vacío"))
		}
		sub, err := signer.Verify(tokenString)
		if err != nil {
			return writeError(c, newAPIError(fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado"))
		}
		c.Locals(LocalUserID, sub.UserID)
		c.Locals(LocalCompanyID, sub.CompanyID)
		c.Locals(LocalRole, sub.Role)
		return c.Next()
	}
}

// TenantMiddleware resuelve la empresa del request (sesión o fallback demo) y la deja
// en c.Locals(LocalTenant). Debe ir después de AuthMiddleware u OptionalAuth.
func TenantMiddleware(resolver *tenant.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id *tenant.Identity
		if companyID := localString(c, LocalCompanyID); companyID != "" {
			id = &tenant.Identity{
				UserID:    GetUserID(c),
				CompanyID: companyID,
				Role:      localString(c, LocalRole),
			}
		}
		tc, err := resolver.Resolve(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return writeError(c, newAPIError(fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header requerido"))
			}
			return writeError(c, err)
		}
		c.Locals(LocalTenant, tc)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Sin rol en la sesión responde 401
// MISSING_ROLE; con un rol no permitido, 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return writeError(c, newAPIError(fiber.StatusUnauthorized, "MISSING_ROLE", "la sesión no tiene rol asignado"))
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return writeError(c, newAPIError(fiber.StatusForbidden, "FORBIDDEN", "el rol "+role+" no tiene permiso para esta operación"))
	}
}

// GetTenant devuelve la empresa resuelta por TenantMiddleware (zero value si no corrió).
func GetTenant(c *fiber.Ctx) domain.TenantContext {
	tc, _ := c.Locals(LocalTenant).(domain.TenantContext)
	return tc
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	if tc := GetTenant(c); tc.Valid() {
		return tc.UserID
	}
	return localString(c, LocalUserID)
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	if tc := GetTenant(c); tc.Valid() {
		return tc.CompanyID
	}
	return localString(c, LocalCompanyID)
}

// GetRole devuelve el rol efectivo: el de la empresa resuelta o, si no hay, el del token.
func GetRole(c *fiber.Ctx) string {
	if tc := GetTenant(c); tc.Valid() {
		return tc.Role
	}
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
