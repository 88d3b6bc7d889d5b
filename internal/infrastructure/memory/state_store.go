// Package memory implementa el StateStore en memoria del proceso (tests y demos).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/panel-admin/internal/domain/repository"
)

var _ repository.StateStore = (*StateStore)(nil)

// StateStore mapa clave → bytes protegido por mutex. Guarda copias de los valores.
type StateStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStateStore construye un store vacío.
func NewStateStore() *StateStore {
	return &StateStore{data: make(map[string][]byte)}
}

// Get devuelve (nil, nil) si la clave no existe.
func (s *StateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set guarda una copia del valor.
func (s *StateStore) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.data[key] = cp
	s.mu.Unlock()
	return nil
}

// Delete elimina la clave; no falla si no existe.
func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
