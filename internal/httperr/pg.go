package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation    = "23505"
	sqlStateExclusionViolation = "23P01"
)

// IsExclusionConflict reports whether err comes from the appointments
// overlap exclusion constraint.
func IsExclusionConflict(err error) bool {
	return hasSQLState(err, sqlStateExclusionViolation)
}

func IsUniqueViolation(err error) bool {
	return hasSQLState(err, sqlStateUniqueViolation)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
