package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateKey is returned when an insert or update trips a unique
// constraint. Request-time duplicate checks cannot close the race window
// between check and insert, so the storage-level constraint is the source
// of truth and services translate this error into a conflict.
var ErrDuplicateKey = errors.New("duplicate key value")

// unique_violation per the postgres error code table
const pgUniqueViolation = "23505"

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateKey
	}
	return err
}
