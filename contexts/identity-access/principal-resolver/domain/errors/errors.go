package errors

import "errors"

var (
	// ErrUnauthenticated covers every failure mode of principal resolution:
	// missing header, malformed token, bad signature, unknown user. Callers
	// get one answer so the response never leaks which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrPrincipalNotFound = errors.New("principal not found")
)
