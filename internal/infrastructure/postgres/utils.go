package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isInvalidJSON verifica si un error es de sintaxis de texto inválida (22P02), p. ej. un cast ::jsonb fallido.
func isInvalidJSON(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02" // invalid_text_representation
	}
	return strings.Contains(err.Error(), "22P02")
}
