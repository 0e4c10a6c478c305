package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/application/auth"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/docstore"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/notify"
	apphttp "github.com/jhoicas/portal-comunitario-api/internal/interfaces/http"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

func (e *testEnv) buildRouter() *fiber.App {
	log := logger.Nop()
	users := docstore.NewUserRepository(e.store)
	notifier := notify.NewStoreNotifier(e.store)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		Guard:          e.guard,
		AuthUC:         auth.NewAuthUseCase(users, e.store, e.provider),
		UserUC:         usecase.NewUserUseCase(users, e.store),
		CameraAccessUC: usecase.NewCameraAccessUseCase(e.store, notifier, log),
		SecurityUC:     usecase.NewSecurityRegistrationUseCase(e.store, notifier, log),
		EventUC:        usecase.NewEventUseCase(e.store, notifier, log),
		NotificationUC: usecase.NewNotificationUseCase(e.store),
		ContentUC:      usecase.NewContentUseCase(e.store),
		Log:            log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRouter_RutasPublicas(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildRouter()

	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, _ = call(t, app, http.MethodGet, "/api/content/lugares", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/content/recetas", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = call(t, app, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AdminRequiereToken(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildRouter()

	resp, body := call(t, app, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token de autorización requerido", body["error"])

	resp, _ = call(t, app, http.MethodGet, "/api/admin/users", env.tokenFor(t, "member-1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/admin/users", env.tokenFor(t, "admin-1"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RegistroYLogin(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildRouter()

	resp, _ := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "nueva@example.com", "password": "clave-segura", "displayName": "Nueva",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nueva@example.com", "password": "clave-segura",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = call(t, app, http.MethodGet, "/api/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "visitante", data["role"])

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nueva@example.com", "password": "mala",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Flujo completo: solicitud, aprobación de un admin, permiso vigente y notificación.
func TestRouter_FlujoAccesoCamara(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildRouter()
	member := env.tokenFor(t, "member-1")
	admin := env.tokenFor(t, "admin-1")

	resp, body := call(t, app, http.MethodPost, "/api/camera-access/requests", member, map[string]string{"cameraId": "C1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	requestID := data["id"].(string)

	resp, _ = call(t, app, http.MethodPost, "/api/admin/camera-access/requests/"+requestID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/admin/camera-access/requests/"+requestID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Esta solicitud ya ha sido procesada", body["error"])

	resp, body = call(t, app, http.MethodGet, "/api/camera-access/check/C1", member, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	check := body["data"].(map[string]interface{})
	assert.Equal(t, true, check["allowed"])

	notes, err := env.store.Query(context.Background(), repository.CollectionNotifications, repository.Where("userId", "member-1"))
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
