package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

// Store identidad autenticada de un ámbito. La identidad es una copia tomada en el login.
type Store struct {
	m     *Manager
	scope string

	mu        sync.RWMutex
	current   *entity.User
	expiresAt time.Time
}

// Scope identificador del ámbito.
func (s *Store) Scope() string { return s.scope }

// Init restaura la sesión persistida si sigue vigente; si venció o es ilegible, la descarta.
// Es la única comprobación de vencimiento: no hay temporizador.
func (s *Store) Init(ctx context.Context) {
	s.clear()

	rec, err := s.m.sessions.Load(ctx, s.scope)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptPersistedState) {
			s.m.log.Warn().Err(err).Str("scope", s.scope).Msg("registro de sesión corrupto, se descarta")
			s.discard(ctx)
			return
		}
		s.m.log.Error().Err(err).Str("scope", s.scope).Msg("leer registro de sesión")
		return
	}
	if rec == nil {
		return
	}
	if !rec.Valid(s.m.now()) {
		s.m.log.Debug().Str("scope", s.scope).Time("expired_at", rec.Expiry()).Msg("sesión vencida")
		s.discard(ctx)
		return
	}

	u := rec.User.Clone()
	s.mu.Lock()
	s.current = &u
	s.expiresAt = rec.Expiry()
	s.mu.Unlock()
}

// Login valida email (sin distinguir mayúsculas) y password contra la tabla de credenciales.
// Email desconocido o password incorrecto → ErrInvalidCredentials; cuenta inactiva → ErrAccountDisabled.
// En ambos casos no se persiste sesión.
func (s *Store) Login(ctx context.Context, email, password string) (entity.User, error) {
	key := NormalizeEmail(email)

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	users, err := s.m.users.List(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptPersistedState) {
			return entity.User{}, fmt.Errorf("login: %w", err)
		}
		s.m.log.Warn().Err(err).Msg("lista de usuarios corrupta")
		users = nil
	}
	creds, err := s.m.users.Credentials(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptPersistedState) {
			return entity.User{}, fmt.Errorf("login: %w", err)
		}
		s.m.log.Warn().Err(err).Msg("tabla de credenciales corrupta")
		creds = map[string]string{}
	}

	idx := indexByEmail(users, key)
	hash, hasCred := creds[key]
	if idx < 0 || !hasCred {
		return entity.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return entity.User{}, domain.ErrInvalidCredentials
	}
	user := users[idx]
	if !user.Active {
		return entity.User{}, domain.ErrAccountDisabled
	}

	now := s.m.now()
	user.LastAccess = &now
	users[idx] = user
	if err := s.m.users.SaveAll(ctx, users); err != nil {
		return entity.User{}, fmt.Errorf("registrar último acceso: %w", err)
	}

	rec := entity.NewSession(user, now, s.m.ttl)
	if err := s.m.sessions.Save(ctx, s.scope, rec); err != nil {
		return entity.User{}, fmt.Errorf("persistir sesión: %w", err)
	}

	snapshot := rec.User.Clone()
	s.mu.Lock()
	s.current = &snapshot
	s.expiresAt = rec.Expiry()
	s.mu.Unlock()

	s.m.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Str("scope", s.scope).Msg("inicio de sesión")
	return user.Clone(), nil
}

// Logout borra el registro persistido y la identidad en memoria. Es idempotente;
// la identidad en memoria se limpia aunque falle el almacenamiento.
func (s *Store) Logout(ctx context.Context) error {
	s.clear()
	if err := s.m.sessions.Delete(ctx, s.scope); err != nil {
		s.m.log.Error().Err(err).Str("scope", s.scope).Msg("eliminar registro de sesión")
		return err
	}
	return nil
}

// Current identidad de la sesión (copia) y si hay alguien autenticado.
func (s *Store) Current() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return entity.User{}, false
	}
	return s.current.Clone(), true
}

// IsAuthenticated informa si hay identidad en memoria.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// ExpiresAt vencimiento de la sesión; cero si no hay sesión.
func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Store) clear() {
	s.mu.Lock()
	s.current = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

func (s *Store) discard(ctx context.Context) {
	if err := s.m.sessions.Delete(ctx, s.scope); err != nil {
		s.m.log.Error().Err(err).Str("scope", s.scope).Msg("descartar registro de sesión")
	}
}

func indexByEmail(users []entity.User, key string) int {
	for i, u := range users {
		if NormalizeEmail(u.Email) == key {
			return i
		}
	}
	return -1
}

func indexByID(users []entity.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
