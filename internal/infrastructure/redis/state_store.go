package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/panel-admin/internal/domain/repository"
	goredis "github.com/redis/go-redis/v9"
)

var _ repository.StateStore = (*StateStore)(nil)

// StateStore guarda cada clave del estado como string de Redis, con un prefijo por despliegue.
// Las claves no expiran: el vencimiento de la sesión se evalúa en la aplicación.
type StateStore struct {
	db     goredis.UniversalClient
	prefix string
}

// NewStateStore construye el adaptador.
func NewStateStore(db goredis.UniversalClient, prefix string) *StateStore {
	return &StateStore{db: db, prefix: prefix}
}

// Get devuelve (nil, nil) cuando la clave no existe (redis.Nil).
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set escribe el valor sin expiración.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.db.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete elimina la clave.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
