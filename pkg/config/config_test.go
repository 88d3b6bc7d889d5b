package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-admin/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Storage.SeedDemo)
	assert.True(t, cfg.RBAC.LockAdmin)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "panel:", cfg.Redis.Prefix)
	assert.Equal(t, 3, cfg.Redis.RetryAttempts)
	assert.Equal(t, 5, cfg.DB.MaxConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("RBAC_LOCK_ADMIN", "false")
	t.Setenv("SESSION_TTL_HOURS", "8")
	t.Setenv("REDIS_RETRY_INTERVAL", "500ms")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.False(t, cfg.Storage.SeedDemo)
	assert.False(t, cfg.RBAC.LockAdmin)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.RetryInterval)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoad_TTLInvalido(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "0")
	_, err := config.Load()
	require.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "panel", Password: "p@ss", DBName: "panel_admin", SSLMode: "disable"}
	assert.Equal(t, "postgres://panel:p%40ss@db:5432/panel_admin?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://u:p@host/db"
	assert.Equal(t, "postgresql://u:p@host/db", c.ConnectionString())
}
