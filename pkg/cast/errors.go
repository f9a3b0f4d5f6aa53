package cast

import (
	"errors"
	"fmt"
)

// User-facing error codes, surfaced as inline form-field errors by the
// presentation layer.
const (
	CodeTVNotFound = "TV_NOT_FOUND"
	CodeUnknown    = "UNKNOWN_ERROR"
)

// TVNotFoundError indicates that no receiver advertised its public key under
// the given PIN. This is an expected outcome, the user recovers by re-reading
// the PIN from the TV screen and submitting again.
type TVNotFoundError struct {
	Pin string
}

func (e TVNotFoundError) Error() string {
	return fmt.Sprintf("no TV advertised a public key for pin %q", e.Pin)
}

// NewTVNotFoundError creates a new TVNotFoundError instance
func NewTVNotFoundError(pin string) TVNotFoundError {
	return TVNotFoundError{Pin: pin}
}

// UnknownError indicates a failure that is not diagnosable on the sender
// side: transport, serialization or crypto. The user recovers by retrying.
type UnknownError struct {
	Err error
}

func (e UnknownError) Error() string {
	return e.Err.Error()
}

func (e UnknownError) Unwrap() error {
	return e.Err
}

// NewUnknownError creates a new UnknownError instance
func NewUnknownError(err error) UnknownError {
	return UnknownError{Err: err}
}

// UserFacingCode maps any pairing failure to the code shown on the form
// field. Nothing propagates to a global error boundary.
func UserFacingCode(err error) string {
	var notFound TVNotFoundError
	if errors.As(err, &notFound) {
		return CodeTVNotFound
	}
	return CodeUnknown
}
