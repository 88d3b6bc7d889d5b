package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")

	// Autenticación y sesión.
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrAccountDisabled     = errors.New("la cuenta está desactivada")
	ErrUnauthorized        = errors.New("no autorizado: se requiere rol ADMIN")
	ErrSelfDeleteForbidden = errors.New("no puede eliminar su propio usuario")

	// Roles y permisos.
	ErrUnknownRole       = errors.New("rol desconocido")
	ErrUnknownPermission = errors.New("permiso desconocido")
	ErrAdminImmutable    = errors.New("los permisos del rol ADMIN no se pueden modificar")
	ErrResetNotConfirmed = errors.New("restablecimiento no confirmado")

	// ErrCorruptPersistedState se recupera internamente volviendo a los valores por defecto.
	ErrCorruptPersistedState = errors.New("estado persistido corrupto")
)
