package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/access"
	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/pkg/jwt"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// JWTConfig configuración para firmar los tokens de sesión.
type JWTConfig struct {
	Secret string
	Issuer string
}

// AuthHandler maneja login, logout, sesión actual y consultas de acceso.
type AuthHandler struct {
	sessions *session.Manager
	perms    *permission.Store
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *session.Manager, perms *permission.Store, jwtCfg JWTConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, perms: perms, jwtCfg: jwtCfg, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}

	// Cada login HTTP es un ámbito nuevo: su registro de sesión vive en sesion:<sid>.
	s := h.sessions.Open(c.UserContext(), h.sessions.NewScope())
	user, err := s.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	token, err := jwt.Generate(h.jwtCfg.Secret, s.Scope(), user.ID, user.Role.String(), h.jwtCfg.Issuer, s.ExpiresAt())
	if err != nil {
		_ = s.Logout(c.UserContext())
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.LoginResponse{
		Token:       token,
		ExpiresAt:   s.ExpiresAt(),
		User:        dto.ToUserResponse(user),
		Permissions: dto.PermissionStrings(access.NewEvaluator(s, h.perms).Permissions()),
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := GetSession(c).Logout(c.UserContext()); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Sesión actual
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.MeResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	s := GetSession(c)
	user, _ := s.Current()
	return c.JSON(dto.MeResponse{
		User:        dto.ToUserResponse(user),
		ExpiresAt:   s.ExpiresAt(),
		Permissions: dto.PermissionStrings(evaluatorFor(c, h.perms).Permissions()),
	})
}

// Check godoc
// @Summary      Consultar permisos de la sesión
// @Tags         access
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AccessCheckRequest  true  "permission, all, any"
// @Success      200   {object}  dto.AccessCheckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/access/check [post]
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	var in dto.AccessCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Permission == "" && len(in.All) == 0 && len(in.Any) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "indique permission, all o any"})
	}
	all, err := rbac.ParsePermissions(in.All)
	if err != nil {
		return writeError(c, h.log, err)
	}
	anyOf, err := rbac.ParsePermissions(in.Any)
	if err != nil {
		return writeError(c, h.log, err)
	}

	ev := evaluatorFor(c, h.perms)
	granted := true
	if in.Permission != "" {
		p, err := rbac.ParsePermission(in.Permission)
		if err != nil {
			return writeError(c, h.log, err)
		}
		granted = ev.Check(p)
	}
	if len(all) > 0 {
		granted = granted && ev.CheckAll(all...)
	}
	if len(anyOf) > 0 {
		granted = granted && ev.CheckAny(anyOf...)
	}
	return c.JSON(dto.AccessCheckResponse{Granted: granted})
}
