// Package redis implementa el StateStore sobre Redis con go-redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/panel-admin/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

// ErrRedisNotReady Redis no respondió dentro de los reintentos configurados.
var ErrRedisNotReady = errors.New("redis no disponible tras los reintentos")

// Connect abre el cliente desde REDIS_URL y reintenta el PING hasta RetryAttempts veces,
// esperando RetryInterval entre intentos. ConnectTimeout acota la espera total.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrRedisNotReady
}
