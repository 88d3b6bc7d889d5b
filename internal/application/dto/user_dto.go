package dto

import (
	"time"

	"github.com/jhoicas/panel-admin/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el store de sesión).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,oneof=ADMIN GERENTE COMPRADOR VENDEDOR"`
	Active   *bool  `json:"active"`
}

// UpdateUserRequest cambios parciales; los campos ausentes no se modifican.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Active     bool       `json:"active"`
	LastAccess *time.Time `json:"last_access,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToUserResponse convierte la entidad en su representación HTTP.
func ToUserResponse(u entity.User) UserResponse {
	c := u.Clone()
	return UserResponse{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Role:       c.Role.String(),
		Active:     c.Active,
		LastAccess: c.LastAccess,
		CreatedAt:  c.CreatedAt,
	}
}

// UserListResponse listado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
