// Package access responde "¿puede esta sesión hacer X?" a partir de la sesión y del mapa de permisos.
package access

import (
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
)

// SessionSource identidad actual; la implementa *session.Store.
type SessionSource interface {
	Current() (entity.User, bool)
}

// PermissionSource mapa vivo rol → permisos; lo implementa *permission.Store.
type PermissionSource interface {
	Has(role rbac.Role, p rbac.Permission) bool
	Get(role rbac.Role) []rbac.Permission
}

// Evaluator consultas sin efectos. No cachea: cada llamada lee ambas fuentes,
// así un cambio en la matriz de roles se ve en la siguiente consulta sin volver a iniciar sesión.
type Evaluator struct {
	session SessionSource
	perms   PermissionSource
}

// NewEvaluator construye el evaluador.
func NewEvaluator(session SessionSource, perms PermissionSource) *Evaluator {
	return &Evaluator{session: session, perms: perms}
}

// Check true si la identidad actual tiene p; false si no hay sesión.
func (e *Evaluator) Check(p rbac.Permission) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	return e.perms.Has(role, p)
}

// CheckAny true si tiene al menos uno. Lista vacía → false.
func (e *Evaluator) CheckAny(ps ...rbac.Permission) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	for _, p := range ps {
		if e.perms.Has(role, p) {
			return true
		}
	}
	return false
}

// CheckAll true si tiene todos. Lista vacía → true con sesión, false sin ella.
func (e *Evaluator) CheckAll(ps ...rbac.Permission) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	for _, p := range ps {
		if !e.perms.Has(role, p) {
			return false
		}
	}
	return true
}

// Permissions permisos efectivos de la identidad actual (vacío sin sesión).
func (e *Evaluator) Permissions() []rbac.Permission {
	role, ok := e.role()
	if !ok {
		return []rbac.Permission{}
	}
	return e.perms.Get(role)
}

func (e *Evaluator) role() (rbac.Role, bool) {
	u, ok := e.session.Current()
	if !ok {
		return "", false
	}
	return u.Role, true
}

// Allows consulta pura sobre un mapa concreto.
func Allows(m rbac.RolePermissionMap, role rbac.Role, p rbac.Permission) bool {
	return m.Has(role, p)
}
