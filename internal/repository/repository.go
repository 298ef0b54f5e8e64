package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
)

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}

// isUniqueViolation проверяет код 23505 (unique_violation)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
