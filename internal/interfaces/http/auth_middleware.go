package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/access"
	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/pkg/jwt"
)

// Locals keys para la sesión y sus datos en Fiber.
const (
	LocalSession = "session"
	LocalUserID  = "user_id"
	LocalRole    = "role"
)

// sessionOpener abre el store de sesión de un ámbito; lo implementa *session.Manager.
type sessionOpener interface {
	Open(ctx context.Context, scope string) *session.Store
}

// AuthMiddleware valida el Bearer Token JWT y restaura la sesión persistida a la que apunta (claim sid).
// La autoridad sale del registro de sesión: tras un logout o el vencimiento, el token deja de servir.
func AuthMiddleware(jwtSecret string, sessions sessionOpener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		s := sessions.Open(c.UserContext(), claims.SessionID)
		user, ok := s.Current()
		if !ok || user.ID != claims.UserID {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "la sesión terminó o venció, inicie sesión de nuevo"})
		}
		c.Locals(LocalSession, s)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.Role.String())
		return c.Next()
	}
}

// GetSession devuelve el store de sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *session.Store {
	s, _ := c.Locals(LocalSession).(*session.Store)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol de la sesión (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// evaluatorFor construye el evaluador de la sesión del contexto; sin sesión todo es false.
func evaluatorFor(c *fiber.Ctx, perms access.PermissionSource) *access.Evaluator {
	var src access.SessionSource = anonymous{}
	if s := GetSession(c); s != nil {
		src = s
	}
	return access.NewEvaluator(src, perms)
}

// RequirePermission devuelve un middleware que exige todos los permisos indicados.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → no hay sesión en el contexto.
//   - 403 Forbidden    → al rol le falta alguno de los permisos.
func RequirePermission(perms access.PermissionSource, required ...rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSession(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada en el contexto"})
		}
		if !evaluatorFor(c, perms).CheckAll(required...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + GetRole(c) + "' no tiene permiso para esta acción",
			})
		}
		return c.Next()
	}
}

// RequireAnyPermission como RequirePermission pero basta con uno de los permisos.
func RequireAnyPermission(perms access.PermissionSource, required ...rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSession(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada en el contexto"})
		}
		if !evaluatorFor(c, perms).CheckAny(required...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + GetRole(c) + "' no tiene permiso para esta acción",
			})
		}
		return c.Next()
	}
}
