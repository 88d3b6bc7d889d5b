package matrix_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/panel-admin/internal/application/access"
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/internal/infrastructure/kvstate"
	"github.com/jhoicas/panel-admin/internal/infrastructure/memory"
	"github.com/jhoicas/panel-admin/internal/infrastructure/seed"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

var (
	yes = matrix.ConfirmFunc(func(context.Context, string) bool { return true })
	no  = matrix.ConfirmFunc(func(context.Context, string) bool { return false })
)

func newEditor(t *testing.T, opts ...permission.Option) (*matrix.Editor, *permission.Store, *memory.StateStore) {
	t.Helper()
	kv := memory.NewStateStore()
	store := permission.NewStore(kvstate.NewPermissionRepository(kv), logger.Nop(), opts...)
	store.Load(context.Background())
	return matrix.NewEditor(store), store, kv
}

// Escenario completo: el vendedor obtiene EDITAR_PRODUCTOS desde la matriz sin volver a iniciar sesión.
func TestEscenario_VendedorRecibePermisoEnVivo(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStateStore()
	users := kvstate.NewUserRepository(kv)
	store := permission.NewStore(kvstate.NewPermissionRepository(kv), logger.Nop(), permission.WithAdminLock(true))
	store.Load(ctx)
	mgr := session.NewManager(users, kvstate.NewSessionRepository(kv), logger.Nop(), session.WithBcryptCost(bcrypt.MinCost))
	_, err := seed.Run(ctx, users, mgr, seed.DemoUsers(), logger.Nop())
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, rbac.RoleVendedor, []rbac.Permission{rbac.PermVerDashboard, rbac.PermVerProductos}))
	require.Len(t, store.Get(rbac.RoleAdmin), 30)

	s := mgr.Open(ctx, "tab-1")
	_, err = s.Login(ctx, "vendedor@panel.local", "vendedor123")
	require.NoError(t, err)
	ev := access.NewEvaluator(s, store)

	assert.True(t, ev.Check(rbac.PermVerProductos))
	assert.False(t, ev.Check(rbac.PermEditarProductos))

	granted, err := matrix.NewEditor(store).Toggle(ctx, rbac.RoleVendedor, rbac.PermEditarProductos)
	require.NoError(t, err)
	assert.True(t, granted)

	assert.True(t, ev.Check(rbac.PermEditarProductos), "sin volver a iniciar sesión")
}

func TestToggle_AgregaYQuita(t *testing.T) {
	ctx := context.Background()
	ed, store, kv := newEditor(t)
	require.NoError(t, store.Set(ctx, rbac.RoleComprador, []rbac.Permission{rbac.PermVerDashboard}))

	granted, err := ed.Toggle(ctx, rbac.RoleComprador, rbac.PermVerAlertas)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []rbac.Permission{rbac.PermVerDashboard, rbac.PermVerAlertas}, store.Get(rbac.RoleComprador))
	assert.True(t, ed.Dirty())

	raw, err := kv.Get(ctx, repository.KeyRolePermissions)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "VER_ALERTAS", "cada cambio se persiste al instante")

	granted, err = ed.Toggle(ctx, rbac.RoleComprador, rbac.PermVerDashboard)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, []rbac.Permission{rbac.PermVerAlertas}, store.Get(rbac.RoleComprador))
}

func TestToggle_Admin_Rechazado(t *testing.T) {
	// El editor rechaza ADMIN aunque el store no lo bloquee.
	ed, store, _ := newEditor(t, permission.WithAdminLock(false))
	before := store.Get(rbac.RoleAdmin)

	_, err := ed.Toggle(context.Background(), rbac.RoleAdmin, rbac.PermVerDashboard)
	assert.ErrorIs(t, err, domain.ErrAdminImmutable)
	assert.Equal(t, before, store.Get(rbac.RoleAdmin))
	assert.False(t, ed.Dirty())
}

func TestToggle_ValoresDesconocidos(t *testing.T) {
	ed, _, _ := newEditor(t)
	_, err := ed.Toggle(context.Background(), "JEFE", rbac.PermVerDashboard)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	_, err = ed.Toggle(context.Background(), rbac.RoleVendedor, "VER_TODO")
	assert.ErrorIs(t, err, domain.ErrUnknownPermission)
}

func TestReset_RequiereConfirmacion(t *testing.T) {
	ctx := context.Background()
	ed, store, _ := newEditor(t)
	_, err := ed.Toggle(ctx, rbac.RoleVendedor, rbac.PermGestionarPagos)
	require.NoError(t, err)

	assert.ErrorIs(t, ed.Reset(ctx, no), domain.ErrResetNotConfirmed)
	assert.ErrorIs(t, ed.Reset(ctx, nil), domain.ErrResetNotConfirmed)
	assert.True(t, store.Snapshot().Has(rbac.RoleVendedor, rbac.PermGestionarPagos), "sin confirmar no cambia nada")
	assert.True(t, ed.Dirty())

	var prompt string
	require.NoError(t, ed.Reset(ctx, matrix.ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return true
	})))
	assert.Equal(t, matrix.ResetPrompt, prompt)
	assert.Equal(t, rbac.DefaultRolePermissions(), store.Snapshot())
	assert.False(t, ed.Dirty())
	require.NoError(t, ed.Reset(ctx, yes))
}

func TestMatrix_GrillaAgrupada(t *testing.T) {
	ed, store, _ := newEditor(t)
	grid := ed.Matrix()

	assert.Equal(t, rbac.Roles(), grid.Roles)
	require.Len(t, grid.Sections, len(rbac.Groups()))

	rows := 0
	for _, sec := range grid.Sections {
		assert.NotEmpty(t, sec.Label)
		for _, row := range sec.Rows {
			rows++
			assert.Equal(t, sec.Key, row.Permission.Group())
			require.Len(t, row.Cells, len(rbac.Roles()))
			for _, cell := range row.Cells {
				assert.Equal(t, store.Snapshot().Has(cell.Role, row.Permission), cell.Granted)
				assert.Equal(t, cell.Role == rbac.RoleAdmin, cell.ReadOnly)
			}
		}
	}
	assert.Equal(t, len(rbac.Permissions()), rows, "cada permiso aparece una vez")
}

func TestSetRole_ReemplazaColumna(t *testing.T) {
	ctx := context.Background()
	ed, store, _ := newEditor(t)
	want := []rbac.Permission{rbac.PermVerPagos, rbac.PermVerDashboard}

	require.NoError(t, ed.SetRole(ctx, rbac.RoleGerente, want))
	assert.Equal(t, want, store.Get(rbac.RoleGerente))
	assert.True(t, ed.Dirty())

	assert.ErrorIs(t, ed.SetRole(ctx, rbac.RoleAdmin, nil), domain.ErrAdminImmutable)
	assert.ErrorIs(t, ed.SetRole(ctx, rbac.RoleGerente, []rbac.Permission{"VER_TODO"}), domain.ErrUnknownPermission)
	assert.Equal(t, want, store.Get(rbac.RoleGerente))
}

// slowKV retrasa cada escritura para ensanchar la ventana entre lectura y persistencia.
type slowKV struct {
	*memory.StateStore
}

func (s slowKV) Set(ctx context.Context, key string, value []byte) error {
	time.Sleep(5 * time.Millisecond)
	return s.StateStore.Set(ctx, key, value)
}

func TestToggle_Concurrente_NoPierdeCambios(t *testing.T) {
	ctx := context.Background()
	kv := slowKV{memory.NewStateStore()}
	store := permission.NewStore(kvstate.NewPermissionRepository(kv), logger.Nop())
	store.Load(ctx)
	ed := matrix.NewEditor(store)
	require.NoError(t, store.Set(ctx, rbac.RoleVendedor, nil))

	toAdd := []rbac.Permission{
		rbac.PermCrearProductos, rbac.PermEditarProductos, rbac.PermEliminarProductos, rbac.PermGestionarAlertas,
	}
	var wg sync.WaitGroup
	errs := make([]error, len(toAdd))
	for i, p := range toAdd {
		wg.Add(1)
		go func(i int, p rbac.Permission) {
			defer wg.Done()
			granted, err := ed.Toggle(ctx, rbac.RoleVendedor, p)
			errs[i] = err
			assert.True(t, granted)
		}(i, p)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, toAdd, store.Get(rbac.RoleVendedor))

	reloaded := permission.NewStore(kvstate.NewPermissionRepository(kv), logger.Nop())
	reloaded.Load(ctx)
	assert.ElementsMatch(t, toAdd, reloaded.Get(rbac.RoleVendedor), "lo persistido coincide con lo informado")
}
