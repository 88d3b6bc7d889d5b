// Package rbac define el vocabulario cerrado de roles y permisos del panel
// y el mapa rol→permisos por defecto que se distribuye con el sistema.
package rbac

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/panel-admin/internal/domain"
)

// Role es un rol fijo del panel. Solo existen los valores declarados abajo.
type Role string

// Roles válidos.
const (
	RoleAdmin     Role = "ADMIN"
	RoleGerente   Role = "GERENTE"
	RoleComprador Role = "COMPRADOR"
	RoleVendedor  Role = "VENDEDOR"
)

var allRoles = []Role{RoleAdmin, RoleGerente, RoleComprador, RoleVendedor}

var roleLabels = map[Role]string{
	RoleAdmin:     "Administrador",
	RoleGerente:   "Gerente",
	RoleComprador: "Comprador",
	RoleVendedor:  "Vendedor",
}

// Roles devuelve todos los roles en orden de presentación.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid informa si r pertenece al conjunto cerrado de roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label nombre legible del rol.
func (r Role) Label() string {
	return roleLabels[r]
}

func (r Role) String() string { return string(r) }

// ParseRole convierte un texto (sin distinguir mayúsculas) en Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownRole, s)
	}
	return r, nil
}

// UnmarshalJSON rechaza roles fuera del conjunto cerrado.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalText permite usar Role como clave de mapa en JSON.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func errUnknownRole(r Role) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(r))
}

func errUnknownPermission(p Permission) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownPermission, string(p))
}
