// Package kvstate implementa los puertos de persistencia del panel sobre un StateStore
// clave/valor, serializando cada registro como JSON.
package kvstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.SessionRepository    = (*SessionRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y credenciales
// ──────────────────────────────────────────────────────────────────────────────

// UserRepo guarda la lista de usuarios y la tabla de credenciales.
type UserRepo struct {
	kv repository.StateStore
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(kv repository.StateStore) *UserRepo {
	return &UserRepo{kv: kv}
}

// List devuelve la lista ordenada de usuarios.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	if err := getJSON(ctx, r.kv, repository.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveAll reemplaza la lista completa.
func (r *UserRepo) SaveAll(ctx context.Context, users []entity.User) error {
	if users == nil {
		users = []entity.User{}
	}
	return setJSON(ctx, r.kv, repository.KeyUsers, users)
}

// Credentials devuelve la tabla email → hash.
func (r *UserRepo) Credentials(ctx context.Context) (map[string]string, error) {
	creds := map[string]string{}
	if err := getJSON(ctx, r.kv, repository.KeyCredentials, &creds); err != nil {
		return nil, err
	}
	if creds == nil {
		creds = map[string]string{}
	}
	return creds, nil
}

// SaveCredentials reemplaza la tabla de credenciales.
func (r *UserRepo) SaveCredentials(ctx context.Context, creds map[string]string) error {
	return setJSON(ctx, r.kv, repository.KeyCredentials, creds)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

// SessionRepo guarda un registro de sesión por ámbito.
type SessionRepo struct {
	kv repository.StateStore
}

// NewSessionRepository construye el adaptador de sesiones.
func NewSessionRepository(kv repository.StateStore) *SessionRepo {
	return &SessionRepo{kv: kv}
}

// Load lee el registro del ámbito.
func (r *SessionRepo) Load(ctx context.Context, scope string) (*entity.Session, error) {
	raw, err := r.kv.Get(ctx, repository.SessionKey(scope))
	if err != nil {
		return nil, fmt.Errorf("leer sesión: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var s entity.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: sesión %s: %v", domain.ErrCorruptPersistedState, scope, err)
	}
	return &s, nil
}

// Save escribe el registro del ámbito.
func (r *SessionRepo) Save(ctx context.Context, scope string, s entity.Session) error {
	return setJSON(ctx, r.kv, repository.SessionKey(scope), s)
}

// Delete elimina el registro del ámbito; no falla si no existe.
func (r *SessionRepo) Delete(ctx context.Context, scope string) error {
	if err := r.kv.Delete(ctx, repository.SessionKey(scope)); err != nil {
		return fmt.Errorf("eliminar sesión: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por rol
// ──────────────────────────────────────────────────────────────────────────────

// PermissionRepo guarda la sobrescritura del mapa rol → permisos.
type PermissionRepo struct {
	kv repository.StateStore
}

// NewPermissionRepository construye el adaptador de permisos.
func NewPermissionRepository(kv repository.StateStore) *PermissionRepo {
	return &PermissionRepo{kv: kv}
}

// Load lee la sobrescritura; roles o permisos desconocidos cuentan como datos corruptos.
func (r *PermissionRepo) Load(ctx context.Context) (rbac.RolePermissionMap, error) {
	raw, err := r.kv.Get(ctx, repository.KeyRolePermissions)
	if err != nil {
		return nil, fmt.Errorf("leer permisos: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var m rbac.RolePermissionMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: permisos: %v", domain.ErrCorruptPersistedState, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: permisos: valor nulo", domain.ErrCorruptPersistedState)
	}
	return m, nil
}

// Save escribe el mapa completo.
func (r *PermissionRepo) Save(ctx context.Context, m rbac.RolePermissionMap) error {
	return setJSON(ctx, r.kv, repository.KeyRolePermissions, m)
}

// Clear elimina la sobrescritura.
func (r *PermissionRepo) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, repository.KeyRolePermissions); err != nil {
		return fmt.Errorf("eliminar permisos: %w", err)
	}
	return nil
}

func getJSON(ctx context.Context, kv repository.StateStore, key string, dst any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("leer %s: %w", key, err)
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptPersistedState, key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv repository.StateStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("guardar %s: %w", key, err)
	}
	return nil
}
