// Package storage selecciona el backend del estado persistido según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/internal/infrastructure/memory"
	"github.com/jhoicas/panel-admin/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/panel-admin/internal/infrastructure/redis"
	"github.com/jhoicas/panel-admin/pkg/config"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// Open abre el StateStore configurado y devuelve la función que libera sus conexiones.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.StateStore, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("estado persistido en PostgreSQL (app_state)")
		return postgres.NewStateStore(pool, ""), pool.Close, nil
	case "redis":
		client, err := infraredis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		log.Info().Str("prefix", cfg.Redis.Prefix).Msg("estado persistido en Redis")
		return infraredis.NewStateStore(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil
	case "memory", "":
		log.Warn().Msg("estado en memoria: se pierde al reiniciar")
		return memory.NewStateStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}
