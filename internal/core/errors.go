package core

import "errors"

// ErrLockUnavailable is returned in strict lock mode when the store-wide
// write lock cannot be acquired within the configured wait.
var ErrLockUnavailable = errors.New("store lock unavailable")

// ValidationError reports a request that cannot be written as given.
// It is returned to the caller as a structured failure, never as a 5xx.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// validationErr builds a ValidationError from a plain reason string.
func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
