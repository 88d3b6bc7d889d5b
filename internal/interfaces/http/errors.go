package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: se usa la primera coincidencia con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrAccountDisabled, fiber.StatusForbidden, "ACCOUNT_DISABLED"},
	{domain.ErrUnauthorized, fiber.StatusForbidden, "UNAUTHORIZED_ROLE"},
	{domain.ErrSelfDeleteForbidden, fiber.StatusConflict, "SELF_DELETE"},
	{domain.ErrAdminImmutable, fiber.StatusConflict, "ADMIN_IMMUTABLE"},
	{domain.ErrUnknownRole, fiber.StatusBadRequest, "UNKNOWN_ROLE"},
	{domain.ErrUnknownPermission, fiber.StatusBadRequest, "UNKNOWN_PERMISSION"},
	{domain.ErrResetNotConfirmed, fiber.StatusBadRequest, "RESET_NOT_CONFIRMED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError traduce errores de dominio a ErrorResponse; el resto es 500 y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// anonymous fuente de sesión vacía.
type anonymous struct{}

func (anonymous) Current() (entity.User, bool) { return entity.User{}, false }
