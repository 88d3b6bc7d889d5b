package rbac

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/panel-admin/internal/domain"
)

// Permission es una capacidad con nombre que se concede o se retira por rol.
type Permission string

// Dashboard.
const (
	PermVerDashboard Permission = "VER_DASHBOARD"
)

// Productos.
const (
	PermVerProductos      Permission = "VER_PRODUCTOS"
	PermCrearProductos    Permission = "CREAR_PRODUCTOS"
	PermEditarProductos   Permission = "EDITAR_PRODUCTOS"
	PermEliminarProductos Permission = "ELIMINAR_PRODUCTOS"
)

// Precios.
const (
	PermVerPrecios          Permission = "VER_PRECIOS"
	PermEditarPrecios       Permission = "EDITAR_PRECIOS"
	PermVerHistorialPrecios Permission = "VER_HISTORIAL_PRECIOS"
	PermAprobarPrecios      Permission = "APROBAR_PRECIOS"
)

// Proveedores.
const (
	PermVerProveedores      Permission = "VER_PROVEEDORES"
	PermCrearProveedores    Permission = "CREAR_PROVEEDORES"
	PermEditarProveedores   Permission = "EDITAR_PROVEEDORES"
	PermEliminarProveedores Permission = "ELIMINAR_PROVEEDORES"
)

// Preventas.
const (
	PermVerPreventas      Permission = "VER_PREVENTAS"
	PermCrearPreventas    Permission = "CREAR_PREVENTAS"
	PermEditarPreventas   Permission = "EDITAR_PREVENTAS"
	PermCancelarPreventas Permission = "CANCELAR_PREVENTAS"
)

// Alertas.
const (
	PermVerAlertas       Permission = "VER_ALERTAS"
	PermGestionarAlertas Permission = "GESTIONAR_ALERTAS"
)

// Inventario y recepción de mercadería.
const (
	PermVerInventario        Permission = "VER_INVENTARIO"
	PermAjustarInventario    Permission = "AJUSTAR_INVENTARIO"
	PermVerRecepciones       Permission = "VER_RECEPCIONES"
	PermRegistrarRecepciones Permission = "REGISTRAR_RECEPCIONES"
)

// Administración.
const (
	PermVerUsuarios         Permission = "VER_USUARIOS"
	PermGestionarUsuarios   Permission = "GESTIONAR_USUARIOS"
	PermGestionarRoles      Permission = "GESTIONAR_ROLES"
	PermVerConfiguracion    Permission = "VER_CONFIGURACION"
	PermEditarConfiguracion Permission = "EDITAR_CONFIGURACION"
	PermVerPagos            Permission = "VER_PAGOS"
	PermGestionarPagos      Permission = "GESTIONAR_PAGOS"
)

// PermissionGroup agrupa permisos por área funcional para la matriz de roles.
type PermissionGroup struct {
	Key         string
	Label       string
	Permissions []Permission
}

type permissionInfo struct {
	label string
	group string
	order int
}

// groups define el orden de presentación: primero el orden de grupos, luego el orden interno.
var groups = []PermissionGroup{
	{Key: "dashboard", Label: "Dashboard", Permissions: []Permission{PermVerDashboard}},
	{Key: "productos", Label: "Productos", Permissions: []Permission{
		PermVerProductos, PermCrearProductos, PermEditarProductos, PermEliminarProductos,
	}},
	{Key: "precios", Label: "Precios", Permissions: []Permission{
		PermVerPrecios, PermEditarPrecios, PermVerHistorialPrecios, PermAprobarPrecios,
	}},
	{Key: "proveedores", Label: "Proveedores", Permissions: []Permission{
		PermVerProveedores, PermCrearProveedores, PermEditarProveedores, PermEliminarProveedores,
	}},
	{Key: "preventas", Label: "Preventas", Permissions: []Permission{
		PermVerPreventas, PermCrearPreventas, PermEditarPreventas, PermCancelarPreventas,
	}},
	{Key: "alertas", Label: "Alertas", Permissions: []Permission{
		PermVerAlertas, PermGestionarAlertas,
	}},
	{Key: "inventario", Label: "Inventario y recepción", Permissions: []Permission{
		PermVerInventario, PermAjustarInventario, PermVerRecepciones, PermRegistrarRecepciones,
	}},
	{Key: "administracion", Label: "Administración", Permissions: []Permission{
		PermVerUsuarios, PermGestionarUsuarios, PermGestionarRoles,
		PermVerConfiguracion, PermEditarConfiguracion, PermVerPagos, PermGestionarPagos,
	}},
}

var permissionLabels = map[Permission]string{
	PermVerDashboard:         "Ver dashboard",
	PermVerProductos:         "Ver productos",
	PermCrearProductos:       "Crear productos",
	PermEditarProductos:      "Editar productos",
	PermEliminarProductos:    "Eliminar productos",
	PermVerPrecios:           "Ver precios",
	PermEditarPrecios:        "Editar precios",
	PermVerHistorialPrecios:  "Ver historial de precios",
	PermAprobarPrecios:       "Aprobar cambios de precio",
	PermVerProveedores:       "Ver proveedores",
	PermCrearProveedores:     "Crear proveedores",
	PermEditarProveedores:    "Editar proveedores",
	PermEliminarProveedores:  "Eliminar proveedores",
	PermVerPreventas:         "Ver preventas",
	PermCrearPreventas:       "Crear preventas",
	PermEditarPreventas:      "Editar preventas",
	PermCancelarPreventas:    "Cancelar preventas",
	PermVerAlertas:           "Ver alertas",
	PermGestionarAlertas:     "Gestionar alertas",
	PermVerInventario:        "Ver inventario",
	PermAjustarInventario:    "Ajustar inventario",
	PermVerRecepciones:       "Ver recepciones",
	PermRegistrarRecepciones: "Registrar recepciones",
	PermVerUsuarios:          "Ver usuarios",
	PermGestionarUsuarios:    "Gestionar usuarios",
	PermGestionarRoles:       "Gestionar roles y permisos",
	PermVerConfiguracion:     "Ver configuración",
	PermEditarConfiguracion:  "Editar configuración",
	PermVerPagos:             "Ver métodos de pago",
	PermGestionarPagos:       "Gestionar métodos de pago",
}

var (
	catalog        map[Permission]permissionInfo
	allPermissions []Permission
)

func init() {
	catalog = make(map[Permission]permissionInfo, len(permissionLabels))
	for _, g := range groups {
		for _, p := range g.Permissions {
			catalog[p] = permissionInfo{label: permissionLabels[p], group: g.Key, order: len(allPermissions)}
			allPermissions = append(allPermissions, p)
		}
	}
}

// Permissions devuelve el catálogo completo en orden de presentación.
func Permissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Groups devuelve los grupos de permisos en orden de presentación (copia).
func Groups() []PermissionGroup {
	out := make([]PermissionGroup, len(groups))
	for i, g := range groups {
		perms := make([]Permission, len(g.Permissions))
		copy(perms, g.Permissions)
		out[i] = PermissionGroup{Key: g.Key, Label: g.Label, Permissions: perms}
	}
	return out
}

// Valid informa si p pertenece al catálogo cerrado.
func (p Permission) Valid() bool {
	_, ok := catalog[p]
	return ok
}

// Label texto legible del permiso.
func (p Permission) Label() string { return catalog[p].label }

// Group clave del grupo funcional al que pertenece el permiso.
func (p Permission) Group() string { return catalog[p].group }

// Order posición del permiso en el catálogo; -1 si no existe.
func (p Permission) Order() int {
	info, ok := catalog[p]
	if !ok {
		return -1
	}
	return info.order
}

func (p Permission) String() string { return string(p) }

// ParsePermission convierte un texto (sin distinguir mayúsculas) en Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownPermission, s)
	}
	return p, nil
}

// ParsePermissions convierte una lista de textos; falla con el primer valor desconocido.
func ParsePermissions(in []string) ([]Permission, error) {
	out := make([]Permission, 0, len(in))
	for _, s := range in {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// UnmarshalJSON rechaza permisos fuera del catálogo.
func (p *Permission) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePermission(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
