package repository

import "context"

// StateStore puerto clave/valor para el estado persistido del panel
// (sesión, lista de usuarios, credenciales y sobrescritura de permisos).
// Get devuelve (nil, nil) cuando la clave no existe.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Claves del estado persistido.
const (
	KeyUsers           = "usuarios"
	KeyCredentials     = "credenciales"
	KeyRolePermissions = "permisos_roles"
	keySessionPrefix   = "sesion:"
)

// SessionKey clave del registro de sesión para un ámbito (pestaña o login HTTP).
func SessionKey(scope string) string {
	return keySessionPrefix + scope
}
