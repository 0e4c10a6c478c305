package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/access"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// Locals keys para el principal en Fiber.
const (
	LocalUserID    = "user_id"
	LocalPrincipal = "principal"
)

// principalResolver contrato mínimo que necesita el middleware. Lo implementa *access.Guard.
type principalResolver interface {
	Authenticate(ctx context.Context, header string) (string, error)
	LoadPrincipal(ctx context.Context, id string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token y carga el usuario en c.Locals.
//   - sin header o token vacío → 401 "Token de autorización requerido"
//   - token inválido o expirado → 401
//   - el usuario del token no existe → 404 (antes de cualquier chequeo de rol)
//   - cuenta inactiva → 403
func AuthMiddleware(resolver principalResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := resolver.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return writeError(c, log, err)
		}
		user, err := resolver.LoadPrincipal(c.UserContext(), userID)
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalPrincipal, user)
		return c.Next()
	}
}

// RequireRole exige que el rol del principal esté en roles. Pertenencia simple,
// sin jerarquía. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(log *logger.Logger, roles ...policy.Role) fiber.Handler {
	rule := policy.Rule{Roles: roles}
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(GetPrincipal(c), rule); err != nil {
			return writeError(c, log, err)
		}
		return c.Next()
	}
}

// RequireAdmin atajo para las rutas /api/admin.
func RequireAdmin(log *logger.Logger) fiber.Handler {
	return RequireRole(log, policy.ElevatedRoles...)
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUser devuelve el usuario cargado por AuthMiddleware (nil fuera de rutas protegidas).
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalPrincipal).(*entity.User)
	return u
}

// GetPrincipal datos de autorización del usuario autenticado.
func GetPrincipal(c *fiber.Ctx) policy.Principal {
	return access.PrincipalOf(GetUser(c))
}

// GetRole rol efectivo del usuario autenticado.
func GetRole(c *fiber.Ctx) string {
	return string(GetPrincipal(c).Role)
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= 500 {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
