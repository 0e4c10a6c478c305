package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/pkg/config"
)

func TestLoad_DesdeEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("STORE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("STORE_RETRY_INITIAL_MS", "20")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver, "el driver se normaliza a minúsculas")
	assert.Equal(t, 5, cfg.Store.RetryMax)
	assert.Equal(t, 20*time.Millisecond, cfg.Store.RetryInitial)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "portal-comunitario", cfg.JWT.Issuer)
}

func TestLoad_SinSecretFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: "x"},
		Store: config.StoreConfig{Driver: "mongo", RetryMax: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.Store.Driver = config.StoreDriverPostgres
	assert.NoError(t, cfg.Validate())

	cfg.Store.RetryMax = 0
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "portal", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/portal?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://otro"
	assert.Equal(t, "postgresql://otro", c.ConnectionString())
}
