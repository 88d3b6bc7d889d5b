package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// RoleHandler catálogo de roles/permisos y editor de la matriz.
type RoleHandler struct {
	perms  *permission.Store
	editor *matrix.Editor
	log    *logger.Logger
}

// NewRoleHandler construye el handler de roles.
func NewRoleHandler(perms *permission.Store, editor *matrix.Editor, log *logger.Logger) *RoleHandler {
	return &RoleHandler{perms: perms, editor: editor, log: log}
}

// Catalog godoc
// @Summary      Catálogo de roles y permisos agrupados
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.CatalogResponse
// @Router       /api/roles [get]
func (h *RoleHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(dto.ToCatalogResponse(h.perms.AdminLocked()))
}

// Matrix godoc
// @Summary      Matriz Rol × Permiso
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.MatrixResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/roles/matrix [get]
func (h *RoleHandler) Matrix(c *fiber.Ctx) error {
	return c.JSON(dto.ToMatrixResponse(h.editor.Matrix()))
}

// GetPermissions godoc
// @Summary      Permisos de un rol
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        role  path  string  true  "ADMIN | GERENTE | COMPRADOR | VENDEDOR"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/roles/{role}/permissions [get]
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	role, err := rbac.ParseRole(c.Params("role"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role.String(), Permissions: dto.PermissionStrings(h.perms.Get(role))})
}

// SetPermissions godoc
// @Summary      Reemplazar los permisos de un rol
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        role  path  string  true  "GERENTE | COMPRADOR | VENDEDOR"
// @Param        body  body  dto.SetRolePermissionsRequest  true  "permissions"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles/{role}/permissions [put]
func (h *RoleHandler) SetPermissions(c *fiber.Ctx) error {
	role, err := rbac.ParseRole(c.Params("role"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.SetRolePermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	perms, err := rbac.ParsePermissions(in.Permissions)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.editor.SetRole(c.UserContext(), role, perms); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role.String(), Permissions: dto.PermissionStrings(h.perms.Get(role))})
}

// Toggle godoc
// @Summary      Invertir una celda de la matriz
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ToggleRequest  true  "role, permission"
// @Success      200   {object}  dto.ToggleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles/matrix/toggle [post]
func (h *RoleHandler) Toggle(c *fiber.Ctx) error {
	var in dto.ToggleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p, err := rbac.ParsePermission(in.Permission)
	if err != nil {
		return writeError(c, h.log, err)
	}
	granted, err := h.editor.Toggle(c.UserContext(), role, p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("by", GetUserID(c)).Str("role", role.String()).Str("permission", p.String()).Bool("granted", granted).Msg("celda de matriz actualizada")
	return c.JSON(dto.ToggleResponse{Role: role.String(), Permission: p.String(), Granted: granted})
}

// Reset godoc
// @Summary      Restablecer permisos por defecto
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetRequest  true  "confirm: true"
// @Success      200   {object}  dto.MatrixResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/roles/matrix/reset [post]
func (h *RoleHandler) Reset(c *fiber.Ctx) error {
	var in dto.ResetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	confirm := matrix.ConfirmFunc(func(context.Context, string) bool { return in.Confirm })
	if err := h.editor.Reset(c.UserContext(), confirm); err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Warn().Str("by", GetUserID(c)).Msg("permisos restablecidos por defecto")
	return c.JSON(dto.ToMatrixResponse(h.editor.Matrix()))
}
