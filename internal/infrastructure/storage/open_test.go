package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-admin/internal/infrastructure/storage"
	"github.com/jhoicas/panel-admin/pkg/config"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	kv, closeFn, err := storage.Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: "memory"}}, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, kv.Set(ctx, "k", []byte(`1`)))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`1`), got)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "redis"},
		Redis: config.RedisConfig{
			URL:            "redis://" + mr.Addr() + "/0",
			Prefix:         "panel:",
			RetryAttempts:  1,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		},
	}
	kv, closeFn, err := storage.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, kv.Set(ctx, "usuarios", []byte(`[]`)))
	assert.True(t, mr.Exists("panel:usuarios"))
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, _, err := storage.Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}, logger.Nop())
	require.Error(t, err)
}
