package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/access"
	"github.com/jhoicas/portal-comunitario-api/internal/application/auth"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Guard          *access.Guard
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CameraAccessUC *usecase.CameraAccessUseCase
	SecurityUC     *usecase.SecurityRegistrationUseCase
	EventUC        *usecase.EventUseCase
	NotificationUC *usecase.NotificationUseCase
	ContentUC      *usecase.ContentUseCase
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	api := app.Group("/api")
	authed := AuthMiddleware(deps.Guard, log)

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	userHandler := NewUserHandler(deps.UserUC, log)
	cameraHandler := NewCameraAccessHandler(deps.CameraAccessUC, log)
	securityHandler := NewSecurityRegistrationHandler(deps.SecurityUC, log)
	eventHandler := NewEventHandler(deps.EventUC, log)
	notificationHandler := NewNotificationHandler(deps.NotificationUC, log)
	contentHandler := NewContentHandler(deps.ContentUC, log)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Contenido y agenda (público)
	api.Get("/content/:section", contentHandler.GetSection)
	api.Get("/events", eventHandler.ListEvents)

	// Rutas protegidas (requieren Bearer Token)
	api.Get("/me", authed, authHandler.Me)
	api.Get("/users/:id", authed, userHandler.GetByID)

	camera := api.Group("/camera-access", authed)
	camera.Post("/requests", RequireCapability(log, policy.CapCameraRequest), cameraHandler.RequestAccess)
	camera.Get("/mine", cameraHandler.MyGrants)
	camera.Get("/check/:cameraId", cameraHandler.CheckAccess)

	security := api.Group("/security-registrations", authed)
	security.Post("/", RequireCapability(log, policy.CapSecuritySubmit), securityHandler.Submit)
	security.Get("/:id", securityHandler.GetByID)

	api.Post("/events/:eventId/registrations", authed, RequireCapability(log, policy.CapEventsRegister), eventHandler.Register)
	api.Post("/event-registrations/:id/cancel", authed, eventHandler.Cancel)

	notifications := api.Group("/notifications", authed)
	notifications.Get("/", notificationHandler.ListMine)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Administración (admin, super_admin)
	admin := api.Group("/admin", authed, RequireAdmin(log))

	admin.Get("/users", userHandler.List)
	admin.Get("/users/:id", userHandler.GetByID)
	admin.Put("/users/:id/role", userHandler.UpdateRole)
	admin.Put("/users/:id/status", userHandler.UpdateStatus)
	admin.Put("/users/:id/permissions", userHandler.UpdatePermissions)

	admin.Get("/camera-access/requests", cameraHandler.ListRequests)
	admin.Post("/camera-access/requests/:id/approve", cameraHandler.Approve)
	admin.Post("/camera-access/requests/:id/reject", cameraHandler.Reject)
	admin.Delete("/camera-access/grants/:userId/:cameraId", cameraHandler.Revoke)

	admin.Get("/security-registrations", securityHandler.List)
	admin.Post("/security-registrations/:id/approve", securityHandler.Approve)
	admin.Post("/security-registrations/:id/reject", securityHandler.Reject)
	admin.Put("/security-registrations/:id/notes", securityHandler.UpdateNotes)

	admin.Post("/events", eventHandler.CreateEvent)
	admin.Get("/event-registrations", eventHandler.List)
	admin.Get("/event-registrations/:id", eventHandler.GetByID)
	admin.Post("/event-registrations/:id/confirm", eventHandler.Confirm)
	admin.Post("/event-registrations/:id/block", eventHandler.Block)
	admin.Post("/event-registrations/:id/unblock", eventHandler.Unblock)
	admin.Delete("/event-registrations/:id", eventHandler.Delete)

	admin.Put("/content/:section", contentHandler.UpsertSection)
}
