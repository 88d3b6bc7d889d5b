package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

const minPasswordLen = 6

// UserHandler administración de cuentas. La restricción a ADMIN la aplica el store de sesión.
type UserHandler struct {
	log *logger.Logger
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(log *logger.Logger) *UserHandler {
	return &UserHandler{log: log}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.UserListResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := GetSession(c).ListUsers(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.UserListResponse{Items: make([]dto.UserResponse, 0, len(users)), Total: len(users)}
	for _, u := range users {
		out.Items = append(out.Items, dto.ToUserResponse(u))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario (solo ADMIN)
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, name, role, active"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y role son requeridos"})
	}
	if len(in.Password) < minPasswordLen {
		return shortPassword(c)
	}
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	user, err := GetSession(c).AddUser(c.UserContext(), session.NewUser{
		Email:    in.Email,
		Name:     in.Name,
		Role:     role,
		Password: in.Password,
		Active:   active,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUserResponse(user))
}

// Update godoc
// @Summary      Actualizar usuario (solo ADMIN)
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Password != nil && len(*in.Password) < minPasswordLen {
		return shortPassword(c)
	}
	upd := session.UserUpdate{
		Email:    in.Email,
		Name:     in.Name,
		Active:   in.Active,
		Password: in.Password,
	}
	if in.Role != nil {
		role, err := rbac.ParseRole(*in.Role)
		if err != nil {
			return writeError(c, h.log, err)
		}
		upd.Role = &role
	}
	user, err := GetSession(c).UpdateUser(c.UserContext(), c.Params("id"), upd)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToUserResponse(user))
}

// Delete godoc
// @Summary      Eliminar usuario (solo ADMIN, no a sí mismo)
// @Tags         users
// @Security     BearerAuth
// @Param        id    path  string  true  "ID del usuario"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := GetSession(c).DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func shortPassword(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password debe tener al menos 6 caracteres"})
}
