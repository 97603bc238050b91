package board

import "github.com/pkg/errors"

// ErrNotFound is returned when the requested entity is in neither the cache
// nor the durable store. Terminal for the caller.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned by write operations invoked without a viewer
// identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrAlreadyExists is returned when a create collides with an existing entity
// and the collision is not an idempotency invariant being re-enforced (e.g. a
// community name that is already taken).
var ErrAlreadyExists = errors.New("already exists")

// ValidationError marks malformed input that is rejected before any I/O is
// attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
