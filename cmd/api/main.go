package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/portal-comunitario-api/docs"
	"github.com/jhoicas/portal-comunitario-api/internal/application/access"
	"github.com/jhoicas/portal-comunitario-api/internal/application/auth"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/docstore"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/identity"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/memory"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/notify"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/retry"
	httpRouter "github.com/jhoicas/portal-comunitario-api/internal/interfaces/http"
	"github.com/jhoicas/portal-comunitario-api/pkg/config"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// @title                       Portal Comunitario API
// @version                     1.0
// @description                 Contenido público, solicitudes de cámaras, plan de seguridad y eventos del sector.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var base repository.DocumentStore
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		base = memory.NewDocumentStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema de documentos")
		}
		base = postgres.NewDocumentStore(pool)
	}

	store := retry.New(base, retry.Policy{
		MaxAttempts: cfg.Store.RetryMax,
		Initial:     cfg.Store.RetryInitial,
		MaxWait:     cfg.Store.RetryMaxWait,
	}, log)

	userRepo := docstore.NewUserRepository(store)
	jwtProvider := identity.NewJWTProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	notifier := notify.NewStoreNotifier(store)

	guard := access.NewGuard(jwtProvider, userRepo)
	authUC := auth.NewAuthUseCase(userRepo, store, jwtProvider)
	userUC := usecase.NewUserUseCase(userRepo, store)
	cameraUC := usecase.NewCameraAccessUseCase(store, notifier, log)
	securityUC := usecase.NewSecurityRegistrationUseCase(store, notifier, log)
	eventUC := usecase.NewEventUseCase(store, notifier, log)
	notificationUC := usecase.NewNotificationUseCase(store)
	contentUC := usecase.NewContentUseCase(store)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Portal Comunitario API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Guard:          guard,
		AuthUC:         authUC,
		UserUC:         userUC,
		CameraAccessUC: cameraUC,
		SecurityUC:     securityUC,
		EventUC:        eventUC,
		NotificationUC: notificationUC,
		ContentUC:      contentUC,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
