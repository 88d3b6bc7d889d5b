package repository

import (
	"context"

	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
)

// UserRepository puerto de persistencia para la lista de usuarios y su tabla de credenciales (DIP).
// La lista se guarda completa y ordenada; las credenciales son email → hash bcrypt.
// Sin datos persistidos List y Credentials devuelven colecciones vacías.
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	SaveAll(ctx context.Context, users []entity.User) error
	Credentials(ctx context.Context) (map[string]string, error)
	SaveCredentials(ctx context.Context, creds map[string]string) error
}

// SessionRepository puerto para el registro de sesión de un ámbito.
// Load devuelve (nil, nil) si no hay registro; un registro ilegible envuelve domain.ErrCorruptPersistedState.
type SessionRepository interface {
	Load(ctx context.Context, scope string) (*entity.Session, error)
	Save(ctx context.Context, scope string, s entity.Session) error
	Delete(ctx context.Context, scope string) error
}

// PermissionRepository puerto para la sobrescritura persistida del mapa rol → permisos.
// Load devuelve (nil, nil) si no hay sobrescritura y un error que envuelve
// domain.ErrCorruptPersistedState si el contenido no se puede interpretar.
type PermissionRepository interface {
	Load(ctx context.Context) (rbac.RolePermissionMap, error)
	Save(ctx context.Context, m rbac.RolePermissionMap) error
	Clear(ctx context.Context) error
}
