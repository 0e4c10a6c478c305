// seed_admin crea el super_admin inicial o promueve una cuenta existente.
//
// Uso: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed_admin
// Si el email ya existe, solo se actualizan rol y estado (la contraseña no cambia).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/auth"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/docstore"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/portal-comunitario-api/pkg/config"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	email := strings.TrimSpace(cfg.Seed.AdminEmail)
	if email == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_EMAIL es obligatorio")
		os.Exit(1)
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		fmt.Fprintln(os.Stderr, "seed_admin solo tiene sentido con STORE_DRIVER=postgres")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema de documentos")
	}

	users := docstore.NewUserRepository(postgres.NewDocumentStore(pool))
	if err := seedAdmin(ctx, users, cfg.Seed, time.Now().UTC()); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	admins, err := users.List(ctx, repository.UserFilter{Role: string(policy.RoleSuperAdmin)})
	if err != nil {
		log.Fatal().Err(err).Msg("listar super_admin")
	}
	log.Info().Str("email", email).Int("super_admins", len(admins)).Msg("super_admin listo")
}

// seedAdmin crea la cuenta o la promueve a super_admin activo.
func seedAdmin(ctx context.Context, users repository.UserRepository, seed config.SeedConfig, now time.Time) error {
	existing, err := users.GetByEmail(ctx, seed.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return users.Update(ctx, existing.ID, repository.Fields{
			"role":      string(policy.RoleSuperAdmin),
			"status":    entity.UserStatusActive,
			"updatedAt": now,
		})
	}
	if err := auth.ValidatePassword(seed.AdminPassword); err != nil {
		return fmt.Errorf("SEED_ADMIN_PASSWORD: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.Create(ctx, &entity.User{
		Email:        strings.TrimSpace(seed.AdminEmail),
		DisplayName:  seed.AdminName,
		PasswordHash: string(hash),
		Role:         string(policy.RoleSuperAdmin),
		Status:       entity.UserStatusActive,
		Permissions:  []string{},
		CreatedAt:    &now,
		UpdatedAt:    &now,
	})
}
