package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStorageUnavailable marks a write that failed for transient I/O reasons.
// Callers may retry; the write was not applied.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Unavailable wraps err with ErrStorageUnavailable when it looks transient.
// Constraint violations and other definite rejections pass through unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTransient reports whether a database error is worth retrying.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Network failures, timeouts and pool exhaustion surface as non-PG errors.
		return true
	}
	if len(pgErr.Code) < 2 {
		return false
	}
	switch pgErr.Code[:2] {
	case "08", // connection exception
		"53", // insufficient resources
		"57": // operator intervention
		return true
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
