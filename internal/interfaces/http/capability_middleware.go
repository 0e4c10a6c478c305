package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// RequireCapability verifica que el principal tenga la capacidad, por rol o por
// permiso explícito. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → ni el rol ni los permisos explícitos la incluyen.
//   - Los roles elevados siempre pasan (su conjunto por defecto las incluye todas).
func RequireCapability(log *logger.Logger, capability policy.Capability) fiber.Handler {
	rule := policy.Rule{Capability: capability}
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(GetPrincipal(c), rule); err != nil {
			return writeError(c, log, err)
		}
		return c.Next()
	}
}
