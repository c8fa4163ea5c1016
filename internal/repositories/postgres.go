package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgErrorCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// mapWriteError translates constraint violations into repository sentinels.
func mapWriteError(err error) error {
	switch {
	case isPgErrorCode(err, pgUniqueViolation):
		return ErrConflict
	case isPgErrorCode(err, pgForeignKeyViolation):
		return ErrNotFound
	default:
		return err
	}
}
