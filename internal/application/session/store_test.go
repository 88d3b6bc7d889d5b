package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/internal/infrastructure/kvstate"
	"github.com/jhoicas/panel-admin/internal/infrastructure/memory"
	"github.com/jhoicas/panel-admin/internal/infrastructure/seed"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@panel.local"
	adminPass     = "admin123"
	vendedorEmail = "vendedor@panel.local"
	vendedorPass  = "vendedor123"
	inactivoEmail = "inactivo@panel.local"
	inactivoPass  = "inactivo123"
)

type fixture struct {
	kv    *memory.StateStore
	users *kvstate.UserRepo
	mgr   *session.Manager
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		kv:  memory.NewStateStore(),
		now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.users = kvstate.NewUserRepository(f.kv)
	f.mgr = session.NewManager(f.users, kvstate.NewSessionRepository(f.kv), logger.Nop(),
		session.WithClock(func() time.Time { return f.now }),
		session.WithBcryptCost(bcrypt.MinCost),
	)
	_, err := seed.Run(context.Background(), f.users, f.mgr, seed.DemoUsers(), logger.Nop())
	require.NoError(t, err)
	return f
}

func (f *fixture) login(t *testing.T, scope, email, password string) *session.Store {
	t.Helper()
	s := f.mgr.Open(context.Background(), scope)
	_, err := s.Login(context.Background(), email, password)
	require.NoError(t, err)
	return s
}

func (f *fixture) sessionRecord(t *testing.T, scope string) []byte {
	t.Helper()
	raw, err := f.kv.Get(context.Background(), repository.SessionKey(scope))
	require.NoError(t, err)
	return raw
}

func (f *fixture) userList(t *testing.T) []entity.User {
	t.Helper()
	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	return users
}

func (f *fixture) userByEmail(t *testing.T, email string) entity.User {
	t.Helper()
	for _, u := range f.userList(t) {
		if u.Email == email {
			return u
		}
	}
	t.Fatalf("usuario %s no encontrado", email)
	return entity.User{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmailSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t)
	s := f.mgr.Open(context.Background(), "tab-1")

	u, err := s.Login(context.Background(), "  Admin@PANEL.local ", adminPass)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, u.Email)
	assert.Equal(t, rbac.RoleAdmin, u.Role)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, f.now.Add(24*time.Hour).Equal(s.ExpiresAt()), "vence 24h después del login")
}

func TestLogin_PersisteSesionYUltimoAcceso(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tab-1", vendedorEmail, vendedorPass)

	raw := f.sessionRecord(t, "tab-1")
	require.NotNil(t, raw)
	assert.Contains(t, string(raw), `"expiresAt":`)
	assert.Contains(t, string(raw), `"identity":`)

	stored := f.userByEmail(t, vendedorEmail)
	require.NotNil(t, stored.LastAccess)
	assert.True(t, stored.LastAccess.Equal(f.now))
}

func TestLogin_PasswordIncorrecto_SinSesion(t *testing.T) {
	f := newFixture(t)
	s := f.mgr.Open(context.Background(), "tab-1")

	_, err := s.Login(context.Background(), vendedorEmail, "otra-clave")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, f.sessionRecord(t, "tab-1"), "no se persiste sesión")
	assert.Nil(t, f.userByEmail(t, vendedorEmail).LastAccess)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	f := newFixture(t)
	s := f.mgr.Open(context.Background(), "tab-1")

	_, err := s.Login(context.Background(), "nadie@panel.local", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, f.sessionRecord(t, "tab-1"))
}

func TestLogin_CuentaDesactivada_SinSesion(t *testing.T) {
	f := newFixture(t)
	s := f.mgr.Open(context.Background(), "tab-1")

	_, err := s.Login(context.Background(), inactivoEmail, inactivoPass)
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, f.sessionRecord(t, "tab-1"))

	_, err = s.Login(context.Background(), inactivoEmail, "mala")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "con password incorrecto prima credenciales inválidas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Inicialización y vencimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestInit_RestauraSesionVigente(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tab-1", vendedorEmail, vendedorPass)

	f.now = f.now.Add(23 * time.Hour)
	restored := f.mgr.Open(context.Background(), "tab-1")
	u, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, vendedorEmail, u.Email)
}

func TestInit_SesionVencida_QuedaDeslogueado(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tab-1", vendedorEmail, vendedorPass)

	f.now = f.now.Add(24 * time.Hour)
	restored := f.mgr.Open(context.Background(), "tab-1")
	assert.False(t, restored.IsAuthenticated())
	assert.True(t, restored.ExpiresAt().IsZero())
	assert.Nil(t, f.sessionRecord(t, "tab-1"), "el registro vencido se descarta")
}

func TestInit_RegistroCorrupto_QuedaDeslogueado(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.kv.Set(context.Background(), repository.SessionKey("tab-1"), []byte(`{"identity":`)))

	s := f.mgr.Open(context.Background(), "tab-1")
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, f.sessionRecord(t, "tab-1"))
}

func TestInit_ExpiresAtEnElPasado_DesdeRegistroPersistido(t *testing.T) {
	f := newFixture(t)
	rec := entity.NewSession(f.userByEmail(t, adminEmail), f.now.Add(-48*time.Hour), 24*time.Hour)
	require.NoError(t, kvstate.NewSessionRepository(f.kv).Save(context.Background(), "tab-9", rec))

	s := f.mgr.Open(context.Background(), "tab-9")
	assert.False(t, s.IsAuthenticated())
}

func TestSesion_NoSeRenuevaAlUsarse(t *testing.T) {
	f := newFixture(t)
	s := f.login(t, "tab-1", vendedorEmail, vendedorPass)
	expires := s.ExpiresAt()

	f.now = f.now.Add(12 * time.Hour)
	again := f.mgr.Open(context.Background(), "tab-1")
	assert.True(t, expires.Equal(again.ExpiresAt()), "el vencimiento no cambia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout y ámbitos
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_Idempotente(t *testing.T) {
	f := newFixture(t)
	s := f.login(t, "tab-1", vendedorEmail, vendedorPass)

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, f.sessionRecord(t, "tab-1"))
	require.NoError(t, s.Logout(context.Background()))

	assert.False(t, f.mgr.Open(context.Background(), "tab-1").IsAuthenticated())
}

func TestAmbitos_Independientes(t *testing.T) {
	f := newFixture(t)
	admin := f.login(t, "tab-admin", adminEmail, adminPass)
	vend := f.login(t, "tab-vend", vendedorEmail, vendedorPass)

	require.NoError(t, vend.Logout(context.Background()))
	assert.True(t, admin.IsAuthenticated())
	assert.True(t, f.mgr.Open(context.Background(), "tab-admin").IsAuthenticated())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@panel.local", session.NormalizeEmail(" ANA@Panel.Local\t"))
	assert.Equal(t, session.NormalizeEmail("STRASSE@x.de"), session.NormalizeEmail("strasse@X.DE"))
}
