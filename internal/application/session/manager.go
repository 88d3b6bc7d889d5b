// Package session gestiona la identidad autenticada de cada ámbito (pestaña o login HTTP)
// y la administración de usuarios restringida a ADMIN.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTTL vigencia fija de una sesión desde el login.
const DefaultTTL = 24 * time.Hour

// Manager comparte entre ámbitos la lista de usuarios y las credenciales,
// y abre un Store por ámbito.
type Manager struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	cost     int
	log      *logger.Logger

	// mu serializa lectura-modificación-escritura de usuarios y credenciales.
	mu sync.Mutex
}

// Option configura el Manager.
type Option func(*Manager)

// WithTTL cambia la vigencia de la sesión.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithBcryptCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(m *Manager) { m.cost = cost }
}

// NewManager construye el gestor de sesiones.
func NewManager(users repository.UserRepository, sessions repository.SessionRepository, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		users:    users,
		sessions: sessions,
		ttl:      DefaultTTL,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		log:      log.Component("sesion"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL vigencia configurada.
func (m *Manager) TTL() time.Duration { return m.ttl }

// NewScope genera un identificador de ámbito nuevo.
func (m *Manager) NewScope() string {
	return uuid.NewString()
}

// Open construye el Store del ámbito y lo inicializa desde el registro persistido.
func (m *Manager) Open(ctx context.Context, scope string) *Store {
	s := &Store{m: m, scope: scope}
	s.Init(ctx)
	return s
}

// HashPassword genera el hash bcrypt con el costo configurado.
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail clave de comparación del email (ver entity.NormalizeEmail).
func NormalizeEmail(email string) string {
	return entity.NormalizeEmail(email)
}
