// Package matrix implementa el editor de la matriz Rol × Permiso.
package matrix

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
)

// PermissionStore operaciones del store que usa el editor; la implementa *permission.Store.
type PermissionStore interface {
	Toggle(ctx context.Context, role rbac.Role, p rbac.Permission) (bool, error)
	Set(ctx context.Context, role rbac.Role, perms []rbac.Permission) error
	ResetToDefault(ctx context.Context) error
	Snapshot() rbac.RolePermissionMap
}

// Confirmer pide confirmación interactiva antes de una acción destructiva.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// ResetPrompt texto mostrado al pedir confirmación del restablecimiento.
const ResetPrompt = "¿Restablecer todos los permisos a los valores por defecto?"

// Cell celda de la matriz.
type Cell struct {
	Role     rbac.Role
	Granted  bool
	ReadOnly bool
}

// Row fila de un permiso con una celda por rol, en el orden de rbac.Roles().
type Row struct {
	Permission rbac.Permission
	Label      string
	Cells      []Cell
}

// Section grupo funcional de filas.
type Section struct {
	Key   string
	Label string
	Rows  []Row
}

// Grid vista completa de la matriz.
type Grid struct {
	Roles    []rbac.Role
	Sections []Section
	Dirty    bool
}

// Editor aplica cada cambio al store de inmediato; no hay borrador.
// Dirty es solo una marca visual: hay cambios desde el último restablecimiento.
type Editor struct {
	store PermissionStore
	dirty atomic.Bool
}

// NewEditor construye el editor.
func NewEditor(store PermissionStore) *Editor {
	return &Editor{store: store}
}

// Matrix arma la grilla agrupada por área. La columna ADMIN es de solo lectura.
func (e *Editor) Matrix() Grid {
	snap := e.store.Snapshot()
	roles := rbac.Roles()
	groups := rbac.Groups()

	grid := Grid{Roles: roles, Sections: make([]Section, 0, len(groups)), Dirty: e.dirty.Load()}
	for _, g := range groups {
		sec := Section{Key: g.Key, Label: g.Label, Rows: make([]Row, 0, len(g.Permissions))}
		for _, p := range g.Permissions {
			row := Row{Permission: p, Label: p.Label(), Cells: make([]Cell, 0, len(roles))}
			for _, r := range roles {
				row.Cells = append(row.Cells, Cell{
					Role:     r,
					Granted:  snap.Has(r, p),
					ReadOnly: r == rbac.RoleAdmin,
				})
			}
			sec.Rows = append(sec.Rows, row)
		}
		grid.Sections = append(grid.Sections, sec)
	}
	return grid
}

// Toggle agrega o quita p del rol y lo guarda. Devuelve si quedó concedido.
// ADMIN se rechaza siempre con ErrAdminImmutable, independientemente del store.
func (e *Editor) Toggle(ctx context.Context, role rbac.Role, p rbac.Permission) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(role))
	}
	if !p.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownPermission, string(p))
	}
	if role == rbac.RoleAdmin {
		return false, domain.ErrAdminImmutable
	}

	granted, err := e.store.Toggle(ctx, role, p)
	if err != nil {
		return granted, err
	}
	e.dirty.Store(true)
	return granted, nil
}

// SetRole reemplaza la columna completa de un rol (edición masiva). Igual que Toggle, rechaza ADMIN.
func (e *Editor) SetRole(ctx context.Context, role rbac.Role, perms []rbac.Permission) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(role))
	}
	if role == rbac.RoleAdmin {
		return domain.ErrAdminImmutable
	}
	if err := e.store.Set(ctx, role, perms); err != nil {
		return err
	}
	e.dirty.Store(true)
	return nil
}

// Reset pide confirmación y restablece el mapa por defecto. Sin confirmación → ErrResetNotConfirmed.
func (e *Editor) Reset(ctx context.Context, c Confirmer) error {
	if c == nil || !c.Confirm(ctx, ResetPrompt) {
		return domain.ErrResetNotConfirmed
	}
	if err := e.store.ResetToDefault(ctx); err != nil {
		return err
	}
	e.dirty.Store(false)
	return nil
}

// Dirty marca visual de cambios pendientes de revisión.
func (e *Editor) Dirty() bool { return e.dirty.Load() }
