package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"golang.org/x/text/cases"
)

// User representa una cuenta registrada del panel (identidad, distinta de la sesión viva).
// El email es la clave única y se guarda normalizado (minúsculas).
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       rbac.Role  `json:"role"`
	Active     bool       `json:"active"`
	LastAccess *time.Time `json:"last_access,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Clone copia por valor, incluido el puntero de último acceso.
func (u User) Clone() User {
	if u.LastAccess != nil {
		t := *u.LastAccess
		u.LastAccess = &t
	}
	return u
}

// IsAdmin informa si el usuario tiene rol ADMIN.
func (u User) IsAdmin() bool {
	return u.Role == rbac.RoleAdmin
}

// NormalizeEmail clave de comparación del email: sin espacios y con case folding Unicode.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
