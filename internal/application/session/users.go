package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/panel-admin/internal/domain"
	"github.com/jhoicas/panel-admin/internal/domain/entity"
	"github.com/jhoicas/panel-admin/internal/domain/rbac"
)

// NewUser datos para crear una cuenta. Password en texto plano: se guarda solo su hash.
type NewUser struct {
	Email    string
	Name     string
	Role     rbac.Role
	Password string
	Active   bool
}

// UserUpdate cambios parciales; los campos nil no se modifican.
type UserUpdate struct {
	Email    *string
	Name     *string
	Role     *rbac.Role
	Active   *bool
	Password *string
}

// ListUsers lista ordenada de cuentas. El control de acceso (VER_USUARIOS) lo hace el llamador.
func (s *Store) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.m.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return users, nil
}

// AddUser crea una cuenta. Solo ADMIN (ErrUnauthorized); email duplicado → ErrEmailAlreadyExists.
func (s *Store) AddUser(ctx context.Context, in NewUser) (entity.User, error) {
	caller, err := s.requireAdmin()
	if err != nil {
		return entity.User{}, err
	}
	email := NormalizeEmail(in.Email)
	if !validEmail(email) || in.Password == "" {
		return entity.User{}, domain.ErrInvalidInput
	}
	if !in.Role.Valid() {
		return entity.User{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(in.Role))
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	users, creds, err := s.loadDirectory(ctx)
	if err != nil {
		return entity.User{}, err
	}
	if indexByEmail(users, email) >= 0 {
		return entity.User{}, domain.ErrEmailAlreadyExists
	}
	hash, err := s.m.HashPassword(in.Password)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := entity.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      in.Role,
		Active:    in.Active,
		CreatedAt: s.m.now(),
	}
	creds[email] = hash
	if err := s.save(ctx, append(users, user), creds); err != nil {
		return entity.User{}, err
	}
	s.m.log.Info().Str("by", caller.ID).Str("user_id", user.ID).Str("role", user.Role.String()).Msg("usuario creado")
	return user, nil
}

// UpdateUser modifica una cuenta existente. Solo ADMIN. La sesión del usuario editado
// conserva su copia anterior hasta el próximo login.
func (s *Store) UpdateUser(ctx context.Context, id string, in UserUpdate) (entity.User, error) {
	caller, err := s.requireAdmin()
	if err != nil {
		return entity.User{}, err
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	users, creds, err := s.loadDirectory(ctx)
	if err != nil {
		return entity.User{}, err
	}
	idx := indexByID(users, id)
	if idx < 0 {
		return entity.User{}, domain.ErrUserNotFound
	}
	user := users[idx]
	oldKey := NormalizeEmail(user.Email)

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !validEmail(email) {
			return entity.User{}, domain.ErrInvalidInput
		}
		if other := indexByEmail(users, email); other >= 0 && other != idx {
			return entity.User{}, domain.ErrEmailAlreadyExists
		}
		user.Email = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return entity.User{}, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return entity.User{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(*in.Role))
		}
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}

	newKey := NormalizeEmail(user.Email)
	if in.Password != nil {
		if *in.Password == "" {
			return entity.User{}, domain.ErrInvalidInput
		}
		hash, err := s.m.HashPassword(*in.Password)
		if err != nil {
			return entity.User{}, fmt.Errorf("hash password: %w", err)
		}
		creds[newKey] = hash
	} else if newKey != oldKey {
		if hash, ok := creds[oldKey]; ok {
			creds[newKey] = hash
		}
	}

	// Con cambio de email la credencial vieja se conserva hasta que la lista de usuarios
	// quede guardada: si esa escritura falla, la cuenta sigue entrando con el email anterior.
	users[idx] = user
	if err := s.save(ctx, users, creds); err != nil {
		return entity.User{}, err
	}
	if newKey != oldKey {
		delete(creds, oldKey)
		if err := s.m.users.SaveCredentials(ctx, creds); err != nil {
			s.m.log.Warn().Err(err).Str("user_id", user.ID).Msg("credencial del email anterior sin eliminar")
		}
	}
	s.m.log.Info().Str("by", caller.ID).Str("user_id", user.ID).Msg("usuario actualizado")
	return user.Clone(), nil
}

// DeleteUser elimina una cuenta. Solo ADMIN; no puede eliminarse a sí mismo (ErrSelfDeleteForbidden).
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	caller, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if id == caller.ID {
		return domain.ErrSelfDeleteForbidden
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	users, creds, err := s.loadDirectory(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(users, id)
	if idx < 0 {
		return domain.ErrUserNotFound
	}
	delete(creds, NormalizeEmail(users[idx].Email))
	remaining := append(users[:idx:idx], users[idx+1:]...)
	if err := s.save(ctx, remaining, creds); err != nil {
		return err
	}
	s.m.log.Info().Str("by", caller.ID).Str("user_id", id).Msg("usuario eliminado")
	return nil
}

// requireAdmin comprueba el rol de la identidad de esta sesión (la copia del login).
func (s *Store) requireAdmin() (entity.User, error) {
	u, ok := s.Current()
	if !ok || !u.IsAdmin() {
		return entity.User{}, domain.ErrUnauthorized
	}
	return u, nil
}

func (s *Store) loadDirectory(ctx context.Context) ([]entity.User, map[string]string, error) {
	users, err := s.m.users.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("leer usuarios: %w", err)
	}
	creds, err := s.m.users.Credentials(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("leer credenciales: %w", err)
	}
	return users, creds, nil
}

// save escribe primero las credenciales: una credencial huérfana no permite iniciar sesión.
func (s *Store) save(ctx context.Context, users []entity.User, creds map[string]string) error {
	if err := s.m.users.SaveCredentials(ctx, creds); err != nil {
		return fmt.Errorf("guardar credenciales: %w", err)
	}
	if err := s.m.users.SaveAll(ctx, users); err != nil {
		return fmt.Errorf("guardar usuarios: %w", err)
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}
