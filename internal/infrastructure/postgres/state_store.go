package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
)

var _ repository.StateStore = (*StateStore)(nil)

// DBTX contrato mínimo común a *pgxpool.Pool, *pgxpool.Conn y pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createStateTable = `
	CREATE TABLE IF NOT EXISTS app_state (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// StateStore implementación del puerto StateStore sobre la tabla app_state (clave → JSONB).
type StateStore struct {
	db     DBTX
	prefix string
}

// NewStateStore construye el adaptador. prefix permite compartir la tabla entre despliegues.
func NewStateStore(db DBTX, prefix string) *StateStore {
	return &StateStore{db: db, prefix: prefix}
}

// EnsureSchema crea la tabla app_state si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createStateTable); err != nil {
		return fmt.Errorf("crear tabla app_state: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si no existe la fila.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT value::text FROM app_state WHERE key = $1`, s.prefix+key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get state %s: %w", key, err)
	}
	return raw, nil
}

// Set inserta o reemplaza el valor (upsert). value debe ser JSON válido.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(ctx, query, s.prefix+key, string(value)); err != nil {
		if isInvalidJSON(err) {
			return fmt.Errorf("set state %s: valor no es JSON: %w", key, err)
		}
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

// Delete elimina la fila; no falla si no existe.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, s.prefix+key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}
