package homefin

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed input: negative amounts, missing
// required linkage, incompatible categories. Mutations rejected with it
// are never partially applied.
var ErrValidation = errors.New("validation")

// ErrIntegrity marks a rejected delete of an entity that still has
// dependents; the message names the blocking dependents.
var ErrIntegrity = errors.New("referential integrity")

// ErrNotFound marks a lookup of an entity id that does not exist.
var ErrNotFound = errors.New("not found")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func integrityf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrIntegrity}, args...)...)
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}
