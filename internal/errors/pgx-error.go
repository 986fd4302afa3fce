package app_errors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPgxError übersetzt Postgres-Fehler in AppError. notFoundKey wird bei pgx.ErrNoRows verwendet.
// Zeitüberschreitungen und Verbindungsabbrüche werden zu 503, damit der Caller es erneut versuchen kann.
func MapPgxError(err error, notFoundKey string) *AppError {
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFoundError(notFoundKey)
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return NewAppError(503, ErrUnavailable, "database.unavailable", err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return NewAppError(503, ErrUnavailable, "database.unavailable", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02", "22003": // invalid_text_representation, numeric_value_out_of_range
			return NewAppError(400, ErrValidation, "invalid_request", err)
		case "57P01", "57P03": // admin_shutdown, cannot_connect_now
			return NewAppError(503, ErrUnavailable, "database.unavailable", err)
		}
	}

	return NewAppError(500, ErrInternal, "internal_error", err)
}
