package rbac

// RolePermissionMap mapa rol → lista ordenada y sin duplicados de permisos.
type RolePermissionMap map[Role][]Permission

// Clone copia profunda del mapa.
func (m RolePermissionMap) Clone() RolePermissionMap {
	out := make(RolePermissionMap, len(m))
	for r, perms := range m {
		cp := make([]Permission, len(perms))
		copy(cp, perms)
		out[r] = cp
	}
	return out
}

// Has informa si el rol r tiene el permiso p en el mapa.
func (m RolePermissionMap) Has(r Role, p Permission) bool {
	for _, got := range m[r] {
		if got == p {
			return true
		}
	}
	return false
}

// Normalize deja una entrada por cada rol del enum (vacía si falta) y elimina duplicados
// conservando la primera aparición. Valida roles y permisos.
func (m RolePermissionMap) Normalize() (RolePermissionMap, error) {
	out := make(RolePermissionMap, len(allRoles))
	for r, perms := range m {
		if !r.Valid() {
			return nil, errUnknownRole(r)
		}
		clean, err := Dedupe(perms)
		if err != nil {
			return nil, err
		}
		out[r] = clean
	}
	for _, r := range allRoles {
		if _, ok := out[r]; !ok {
			out[r] = []Permission{}
		}
	}
	return out, nil
}

// Dedupe valida los permisos y elimina duplicados conservando el orden de primera aparición.
func Dedupe(perms []Permission) ([]Permission, error) {
	seen := make(map[Permission]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if !p.Valid() {
			return nil, errUnknownPermission(p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// DefaultRolePermissions mapa base que se distribuye con el sistema.
// ADMIN tiene todo el catálogo.
func DefaultRolePermissions() RolePermissionMap {
	return RolePermissionMap{
		RoleAdmin: Permissions(),
		RoleGerente: {
			PermVerDashboard,
			PermVerProductos, PermCrearProductos, PermEditarProductos, PermEliminarProductos,
			PermVerPrecios, PermEditarPrecios, PermVerHistorialPrecios, PermAprobarPrecios,
			PermVerProveedores, PermCrearProveedores, PermEditarProveedores, PermEliminarProveedores,
			PermVerPreventas, PermCrearPreventas, PermEditarPreventas, PermCancelarPreventas,
			PermVerAlertas, PermGestionarAlertas,
			PermVerInventario, PermAjustarInventario, PermVerRecepciones, PermRegistrarRecepciones,
			PermVerUsuarios, PermVerConfiguracion, PermVerPagos,
		},
		RoleComprador: {
			PermVerDashboard,
			PermVerProductos, PermCrearProductos, PermEditarProductos,
			PermVerPrecios, PermVerHistorialPrecios,
			PermVerProveedores, PermCrearProveedores, PermEditarProveedores,
			PermVerPreventas, PermCrearPreventas, PermEditarPreventas,
			PermVerAlertas,
			PermVerInventario, PermVerRecepciones, PermRegistrarRecepciones,
		},
		RoleVendedor: {
			PermVerDashboard,
			PermVerProductos,
			PermVerPrecios,
			PermVerPreventas, PermCrearPreventas,
			PermVerAlertas,
			PermVerInventario,
		},
	}
}
