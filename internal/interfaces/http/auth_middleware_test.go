package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/application/access"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/docstore"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/identity"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/portal-comunitario-api/internal/interfaces/http"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "portal-test"
	testExpMin    = 60
)

type testEnv struct {
	store    *memory.DocumentStore
	provider *identity.JWTProvider
	guard    *access.Guard
}

// newTestEnv almacén en memoria con un usuario por rol, más uno inactivo.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewDocumentStore()
	users := map[string]repository.Fields{
		"visit-1":    {"email": "v@example.com", "role": "visitante", "status": "active"},
		"member-1":   {"email": "m@example.com", "role": "comunidad", "status": "active"},
		"admin-1":    {"email": "a@example.com", "role": "admin", "status": "active"},
		"super-1":    {"email": "s@example.com", "role": "super_admin"},
		"inactive-1": {"email": "i@example.com", "role": "admin", "status": "inactive"},
		"legacy-1":   {"email": "l@example.com"},
	}
	for id, fields := range users {
		require.NoError(t, store.Set(context.Background(), repository.CollectionUsers, id, fields))
	}
	provider := identity.NewJWTProvider(testJWTSecret, testIssuer, testExpMin)
	return &testEnv{
		store:    store,
		provider: provider,
		guard:    access.NewGuard(provider, docstore.NewUserRepository(store)),
	}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el token y cargar el principal
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func (e *testEnv) buildTestApp(guards ...fiber.Handler) *fiber.App {
	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	handlers := []fiber.Handler{apphttp.AuthMiddleware(e.guard, log)}
	handlers = append(handlers, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":      true,
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func (e *testEnv) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.provider.Issue(userID)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_CuerpoExacto(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"error":"Token de autorización requerido"}`, readBody(t, resp))
}

func TestAuthMiddleware_BearerVacio_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(), "Bearer   ")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"error":"Token de autorización requerido"}`, readBody(t, resp))
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic dXNlcjpwYXNz"} {
		resp := doRequest(t, env.buildTestApp(), header)
		body := readBody(t, resp)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Contains(t, body, "INVALID_TOKEN")
		assert.NotContains(t, body, "signature", "el detalle del verificador no se expone")
	}
}

func TestAuthMiddleware_TokenDeOtroSecret_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	other := identity.NewJWTProvider("otro-secret-completamente-distinto", testIssuer, testExpMin)
	tok, err := other.Issue("admin-1")
	require.NoError(t, err)

	resp := doRequest(t, env.buildTestApp(), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// El usuario del token no existe: 404 antes de mirar roles.
func TestAuthMiddleware_UsuarioInexistente_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(apphttp.RequireAdmin(logger.Nop())), env.tokenFor(t, "ghost-1"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "USER_NOT_FOUND")
}

func TestAuthMiddleware_UsuarioInactivo_Retorna403(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(), env.tokenFor(t, "inactive-1"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "INACTIVE_USER")
}

func TestAuthMiddleware_RolDesdeElDocumento(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp()

	resp := doRequest(t, app, env.tokenFor(t, "member-1"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "member-1", body["user_id"])
	assert.Equal(t, "comunidad", body["role"])

	// Un cambio de rol tiene efecto con el mismo token.
	require.NoError(t, env.store.Update(context.Background(), repository.CollectionUsers, "member-1",
		repository.Fields{"role": "admin"}))
	resp2 := doRequest(t, app, env.tokenFor(t, "member-1"))
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_DocumentoSinRol_EsVisitante(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(), env.tokenFor(t, "legacy-1"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "visitante", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole / RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin_AdminYSuperAdminAcceden(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(apphttp.RequireAdmin(logger.Nop()))

	for _, id := range []string{"admin-1", "super-1"} {
		resp := doRequest(t, app, env.tokenFor(t, id))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, id)
	}
}

func TestRequireAdmin_NoElevadosBloqueados(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(apphttp.RequireAdmin(logger.Nop()))

	for _, id := range []string{"visit-1", "member-1", "legacy-1"} {
		resp := doRequest(t, app, env.tokenFor(t, id))
		body := readBody(t, resp)
		resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode, id)
		assert.Contains(t, body, "FORBIDDEN")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireCapability
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireCapability_PorRolOPermisoExplicito(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(apphttp.RequireCapability(logger.Nop(), policy.CapCameraRequest))

	resp := doRequest(t, app, env.tokenFor(t, "visit-1"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "visitante no solicita cámaras")

	resp = doRequest(t, app, env.tokenFor(t, "member-1"))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.store.Update(context.Background(), repository.CollectionUsers, "visit-1",
		repository.Fields{"permissions": []string{"camera:request"}}))
	resp = doRequest(t, app, env.tokenFor(t, "visit-1"))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el permiso explícito habilita la ruta")
}
