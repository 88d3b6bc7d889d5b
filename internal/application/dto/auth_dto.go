package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión, identidad y permisos efectivos.
type LoginResponse struct {
	Token       string       `json:"token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// MeResponse sesión actual.
type MeResponse struct {
	User        UserResponse `json:"user"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Permissions []string     `json:"permissions"`
}

// AccessCheckRequest consulta combinada: permission individual, all (todos) y any (al menos uno).
// Los criterios presentes se combinan con AND.
type AccessCheckRequest struct {
	Permission string   `json:"permission"`
	All        []string `json:"all"`
	Any        []string `json:"any"`
}

// AccessCheckResponse resultado de la consulta.
type AccessCheckResponse struct {
	Granted bool `json:"granted"`
}
