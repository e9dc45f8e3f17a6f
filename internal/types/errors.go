package types

import "errors"

// Sentinel error kinds returned by the persistence and service layers.
// Handlers match on these with errors.Is to pick a status code, so driver
// specific errors (pgconn codes, pgx.ErrNoRows) must never escape a
// repository untranslated.
var (
	ErrNotFound        = errors.New("requested resource not found")
	ErrConflict        = errors.New("resource already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrValidation      = errors.New("invalid input")
	ErrConfiguration   = errors.New("server configuration error")
)
