package http

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: los centinelas específicos antes que los genéricos.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, ""}, // cuerpo exacto: {"success":false,"error":"Token de autorización requerido"}
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInactiveUser, fiber.StatusForbidden, "INACTIVE_USER"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAlreadyProcessed, fiber.StatusConflict, "ALREADY_PROCESSED"},
	{domain.ErrNotesLocked, fiber.StatusConflict, "NOTES_LOCKED"},
	{domain.ErrDuplicateRequest, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrSelfModification, fiber.StatusConflict, "SELF_MODIFICATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
}

// statusFor traduce un error de dominio a su mapeo. Desconocido => 500.
func statusFor(err error) errorMapping {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m
		}
	}
	return errorMapping{err: err, status: fiber.StatusInternalServerError, code: "INTERNAL"}
}

// userMessage mensaje visible. Los 4xx muestran el error de dominio (los 401 solo el
// centinela, sin el detalle del verificador); el resto es genérico.
func userMessage(m errorMapping, err error) string {
	switch {
	case m.status == fiber.StatusServiceUnavailable:
		return "Servicio no disponible, intente más tarde"
	case m.status >= 500:
		return "Error interno del servidor"
	case m.status == fiber.StatusUnauthorized:
		return capitalize(m.err.Error())
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// writeError responde {success:false, error, code}. Los 5xx se registran.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	m := statusFor(err)
	if m.status >= 500 && log != nil {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", m.status).
			Msg("error procesando petición")
	}
	return c.Status(m.status).JSON(dto.Fail(m.code, userMessage(m, err)))
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "Cuerpo inválido"))
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_QUERY", "Parámetros de consulta inválidos"))
}

// ErrorHandler manejador global de Fiber: errores de ruta (404/405) y errores no tratados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.Fail("HTTP_"+strings.ReplaceAll(strings.ToUpper(fiberStatusText(fe.Code)), " ", "_"), fe.Message))
		}
		return writeError(c, log, err)
	}
}

func fiberStatusText(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusMethodNotAllowed:
		return "method not allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "too large"
	default:
		return "error"
	}
}
