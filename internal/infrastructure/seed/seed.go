// Package seed precarga las cuentas de demostración del panel.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
	"github.com/jhoicas/panel-admin/internal/domain/repository"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// DemoUser cuenta de demostración con su password en claro.
type DemoUser struct {
	Email    string
	Name     string
	Role     rbac.Role
	Password string
	Active   bool
}

// DemoUsers una cuenta por rol más una cuenta desactivada.
func DemoUsers() []DemoUser {
	return []DemoUser{
		{Email: "admin@panel.local", Name: "Administrador", Role: rbac.RoleAdmin, Password: "admin123", Active: true},
		{Email: "gerente@panel.local", Name: "Gerente General", Role: rbac.RoleGerente, Password: "gerente123", Active: true},
		{Email: "comprador@panel.local", Name: "Comprador", Role: rbac.RoleComprador, Password: "comprador123", Active: true},
		{Email: "vendedor@panel.local", Name: "Vendedor", Role: rbac.RoleVendedor, Password: "vendedor123", Active: true},
		{Email: "inactivo@panel.local", Name: "Usuario Inactivo", Role: rbac.RoleVendedor, Password: "inactivo123", Active: false},
	}
}

// Hasher genera el hash de una password (lo implementa *session.Manager).
type Hasher interface {
	HashPassword(password string) (string, error)
}

// Run escribe las cuentas demo solo si la lista de usuarios está vacía. Devuelve cuántas creó.
func Run(ctx context.Context, repo repository.UserRepository, hasher Hasher, demo []DemoUser, log *logger.Logger) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptPersistedState) {
			// No se sobrescribe: los datos pueden recuperarse a mano.
			log.Warn().Err(err).Msg("seed omitido: lista de usuarios corrupta")
			return 0, nil
		}
		return 0, fmt.Errorf("seed: leer usuarios: %w", err)
	}
	if len(existing) > 0 {
		log.Debug().Int("usuarios", len(existing)).Msg("seed omitido: ya hay usuarios")
		return 0, nil
	}

	now := time.Now()
	users := make([]entity.User, 0, len(demo))
	creds := make(map[string]string, len(demo))
	for _, d := range demo {
		email := entity.NormalizeEmail(d.Email)
		hash, err := hasher.HashPassword(d.Password)
		if err != nil {
			return 0, fmt.Errorf("seed: hash %s: %w", d.Email, err)
		}
		users = append(users, entity.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      d.Name,
			Role:      d.Role,
			Active:    d.Active,
			CreatedAt: now,
		})
		creds[email] = hash
	}
	if err := repo.SaveCredentials(ctx, creds); err != nil {
		return 0, fmt.Errorf("seed: guardar credenciales: %w", err)
	}
	if err := repo.SaveAll(ctx, users); err != nil {
		return 0, fmt.Errorf("seed: guardar usuarios: %w", err)
	}
	log.Info().Int("usuarios", len(users)).Msg("cuentas demo creadas")
	return len(users), nil
}
