package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.WithMessage(domain.ErrInvalidInput, "title es requerido"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrUnauthenticated, fiber.StatusUnauthorized, ""},
		{fmt.Errorf("%w: firma", domain.ErrInvalidToken), fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{domain.ErrInactiveUser, fiber.StatusForbidden, "INACTIVE_USER"},
		{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
		{domain.WithMessage(domain.ErrNotFound, "evento no encontrado"), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrAlreadyProcessed, fiber.StatusConflict, "ALREADY_PROCESSED"},
		{domain.ErrNotesLocked, fiber.StatusConflict, "NOTES_LOCKED"},
		{domain.ErrSelfModification, fiber.StatusConflict, "SELF_MODIFICATION"},
		{fmt.Errorf("leer: %w", domain.ErrUnavailable), fiber.StatusServiceUnavailable, "UNAVAILABLE"},
		{errors.New("pánico en el driver"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		m := statusFor(tc.err)
		assert.Equal(t, tc.status, m.status, tc.err.Error())
		assert.Equal(t, tc.code, m.code, tc.err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	err := domain.ErrAlreadyProcessed
	assert.Equal(t, "Esta solicitud ya ha sido procesada", userMessage(statusFor(err), err))

	err = fmt.Errorf("%w: token is malformed", domain.ErrInvalidToken)
	assert.Equal(t, "Token inválido o expirado", userMessage(statusFor(err), err))

	err = fmt.Errorf("query users: %w", errors.New("conn reset"))
	assert.Equal(t, "Error interno del servidor", userMessage(statusFor(err), err))

	err = domain.WithMessage(domain.ErrNotFound, "inscripción no encontrada")
	assert.Equal(t, "Inscripción no encontrada", userMessage(statusFor(err), err))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize("  "))
	assert.Equal(t, "Ñandú", capitalize("ñandú"))
}
