// Package permission mantiene el mapa vivo rol → permisos del panel y su persistencia.
package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// Store única fuente de verdad de los permisos de cada rol.
// Cada Set/ResetToDefault se persiste antes de aplicarse en memoria, de modo que un fallo
// de almacenamiento deja el mapa sin cambios.
type Store struct {
	mu        sync.RWMutex
	current   rbac.RolePermissionMap
	repo      repository.PermissionRepository
	lockAdmin bool
	log       *logger.Logger
}

// Option configura el Store.
type Option func(*Store)

// WithAdminLock hace que el store rechace editar ADMIN (ErrAdminImmutable)
// y que ADMIN conserve siempre el catálogo completo al cargar.
func WithAdminLock(lock bool) Option {
	return func(s *Store) { s.lockAdmin = lock }
}

// NewStore construye el store con el mapa por defecto; Load aplica la sobrescritura persistida.
func NewStore(repo repository.PermissionRepository, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		current: rbac.DefaultRolePermissions(),
		repo:    repo,
		log:     log.Component("permisos"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load inicializa desde la sobrescritura persistida o, si no hay, desde el mapa por defecto.
// Datos corruptos o un almacenamiento inaccesible se registran y se usa el mapa por defecto.
func (s *Store) Load(ctx context.Context) {
	loaded := s.readOverride(ctx)

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
}

func (s *Store) readOverride(ctx context.Context) rbac.RolePermissionMap {
	override, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptPersistedState) {
			s.log.Warn().Err(err).Msg("sobrescritura de permisos corrupta, se usan los valores por defecto")
		} else {
			s.log.Error().Err(err).Msg("no se pudo leer la sobrescritura de permisos, se usan los valores por defecto")
		}
		return rbac.DefaultRolePermissions()
	}
	if override == nil {
		return rbac.DefaultRolePermissions()
	}

	defaults := rbac.DefaultRolePermissions()
	for _, r := range rbac.Roles() {
		if _, ok := override[r]; !ok {
			override[r] = defaults[r]
		}
	}
	normalized, err := override.Normalize()
	if err != nil {
		s.log.Warn().Err(err).Msg("sobrescritura de permisos inválida, se usan los valores por defecto")
		return defaults
	}
	if s.lockAdmin {
		normalized[rbac.RoleAdmin] = defaults[rbac.RoleAdmin]
	}
	return normalized
}

// Get devuelve una copia de los permisos actuales del rol. Un rol desconocido devuelve vacío.
func (s *Store) Get(role rbac.Role) []rbac.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perms := s.current[role]
	out := make([]rbac.Permission, len(perms))
	copy(out, perms)
	return out
}

// Has informa si el rol tiene el permiso, sin copiar la lista.
func (s *Store) Has(role rbac.Role, p rbac.Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Has(role, p)
}

// Snapshot copia profunda del mapa completo.
func (s *Store) Snapshot() rbac.RolePermissionMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// AdminLocked informa si el store protege la entrada ADMIN.
func (s *Store) AdminLocked() bool {
	return s.lockAdmin
}

// Set reemplaza todos los permisos del rol y persiste el mapa completo.
// Rechaza roles (ErrUnknownRole) y permisos (ErrUnknownPermission) fuera del enum sin cambiar nada;
// los duplicados se colapsan conservando la primera aparición.
func (s *Store) Set(ctx context.Context, role rbac.Role, perms []rbac.Permission) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(role))
	}
	if s.lockAdmin && role == rbac.RoleAdmin {
		return domain.ErrAdminImmutable
	}
	clean, err := rbac.Dedupe(perms)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(ctx, role, clean)
}

// Toggle agrega p al rol si no lo tiene o lo quita si lo tiene, y persiste el mapa.
// La lectura y la escritura ocurren bajo el mismo lock: dos toggles concurrentes
// sobre el mismo rol no se pisan. Devuelve si p quedó concedido.
func (s *Store) Toggle(ctx context.Context, role rbac.Role, p rbac.Permission) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(role))
	}
	if !p.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownPermission, string(p))
	}
	if s.lockAdmin && role == rbac.RoleAdmin {
		return false, domain.ErrAdminImmutable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.current[role]
	next := make([]rbac.Permission, 0, len(current)+1)
	granted := true
	for _, got := range current {
		if got == p {
			granted = false
			continue
		}
		next = append(next, got)
	}
	if granted {
		next = append(next, p)
	}
	if err := s.replace(ctx, role, next); err != nil {
		return !granted, err
	}
	return granted, nil
}

// replace persiste el mapa con la nueva lista del rol y solo entonces la aplica. Requiere s.mu.
func (s *Store) replace(ctx context.Context, role rbac.Role, perms []rbac.Permission) error {
	next := s.current.Clone()
	next[role] = perms
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Str("role", role.String()).Msg("persistir permisos")
		return fmt.Errorf("persistir permisos: %w", err)
	}
	s.current = next
	s.log.Info().Str("role", role.String()).Int("permisos", len(perms)).Msg("permisos del rol actualizados")
	return nil
}

// ResetToDefault restaura el mapa por defecto y elimina la sobrescritura persistida.
func (s *Store) ResetToDefault(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("eliminar sobrescritura de permisos")
		return fmt.Errorf("restablecer permisos: %w", err)
	}
	s.current = rbac.DefaultRolePermissions()
	s.log.Info().Msg("permisos restablecidos a los valores por defecto")
	return nil
}
