package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions    *session.Manager
	Permissions *permission.Store
	Editor      *matrix.Editor
	JWT         JWTConfig
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Sessions, deps.Permissions, deps.JWT, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con sesión vigente)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret, deps.Sessions))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/access/check", authHandler.Check)

	// Roles y matriz de permisos
	roleHandler := NewRoleHandler(deps.Permissions, deps.Editor, log)
	roles := protected.Group("/roles")
	roles.Get("/", roleHandler.Catalog)
	manage := RequirePermission(deps.Permissions, rbac.PermGestionarRoles)
	roles.Get("/matrix", manage, roleHandler.Matrix)
	roles.Post("/matrix/toggle", manage, roleHandler.Toggle)
	roles.Post("/matrix/reset", manage, roleHandler.Reset)
	roles.Get("/:role/permissions", manage, roleHandler.GetPermissions)
	roles.Put("/:role/permissions", manage, roleHandler.SetPermissions)

	// Usuarios: listar exige VER_USUARIOS; crear/editar/eliminar los restringe el store a ADMIN.
	userHandler := NewUserHandler(log)
	users := protected.Group("/users")
	users.Get("/", RequirePermission(deps.Permissions, rbac.PermVerUsuarios), userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
