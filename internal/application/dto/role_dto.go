package dto

import (
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
)

// LabeledItem clave con etiqueta legible.
type LabeledItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PermissionGroupResponse grupo funcional del catálogo.
type PermissionGroupResponse struct {
	Key         string        `json:"key"`
	Label       string        `json:"label"`
	Permissions []LabeledItem `json:"permissions"`
}

// CatalogResponse roles y permisos disponibles.
type CatalogResponse struct {
	Roles       []LabeledItem             `json:"roles"`
	Groups      []PermissionGroupResponse `json:"groups"`
	AdminLocked bool                      `json:"admin_locked"`
}

// RolePermissionsResponse permisos de un rol.
type RolePermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// SetRolePermissionsRequest reemplazo completo de los permisos de un rol.
type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// ToggleRequest celda de la matriz a invertir.
type ToggleRequest struct {
	Role       string `json:"role" validate:"required"`
	Permission string `json:"permission" validate:"required"`
}

// ToggleResponse estado de la celda tras el cambio.
type ToggleResponse struct {
	Role       string `json:"role"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// ResetRequest el cliente confirma explícitamente el restablecimiento.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// MatrixCell celda de la grilla.
type MatrixCell struct {
	Role     string `json:"role"`
	Granted  bool   `json:"granted"`
	ReadOnly bool   `json:"read_only"`
}

// MatrixRow fila de un permiso.
type MatrixRow struct {
	Permission string       `json:"permission"`
	Label      string       `json:"label"`
	Cells      []MatrixCell `json:"cells"`
}

// MatrixSection grupo de filas.
type MatrixSection struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Rows  []MatrixRow `json:"rows"`
}

// MatrixResponse grilla Rol × Permiso.
type MatrixResponse struct {
	Roles    []LabeledItem   `json:"roles"`
	Sections []MatrixSection `json:"sections"`
	Dirty    bool            `json:"dirty"`
}

// PermissionStrings convierte permisos a texto.
func PermissionStrings(perms []rbac.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}

// ToCatalogResponse arma el catálogo.
func ToCatalogResponse(adminLocked bool) CatalogResponse {
	out := CatalogResponse{AdminLocked: adminLocked}
	out.Roles = roleItems(rbac.Roles())
	for _, g := range rbac.Groups() {
		grp := PermissionGroupResponse{Key: g.Key, Label: g.Label}
		for _, p := range g.Permissions {
			grp.Permissions = append(grp.Permissions, LabeledItem{Key: p.String(), Label: p.Label()})
		}
		out.Groups = append(out.Groups, grp)
	}
	return out
}

// ToMatrixResponse convierte la grilla del editor.
func ToMatrixResponse(g matrix.Grid) MatrixResponse {
	out := MatrixResponse{Roles: roleItems(g.Roles), Dirty: g.Dirty}
	for _, sec := range g.Sections {
		ms := MatrixSection{Key: sec.Key, Label: sec.Label}
		for _, row := range sec.Rows {
			mr := MatrixRow{Permission: row.Permission.String(), Label: row.Label}
			for _, cell := range row.Cells {
				mr.Cells = append(mr.Cells, MatrixCell{Role: cell.Role.String(), Granted: cell.Granted, ReadOnly: cell.ReadOnly})
			}
			ms.Rows = append(ms.Rows, mr)
		}
		out.Sections = append(out.Sections, ms)
	}
	return out
}

func roleItems(roles []rbac.Role) []LabeledItem {
	out := make([]LabeledItem, len(roles))
	for i, r := range roles {
		out[i] = LabeledItem{Key: r.String(), Label: r.Label()}
	}
	return out
}
