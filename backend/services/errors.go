package services

import (
	"errors"
	"fmt"

	"pincorder/backend/store"
)

var (
	// ErrNotFound covers both a missing entity and one the caller may not
	// act on; callers cannot tell the two apart.
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrConflict        = errors.New("conflict")
)

// ValidationError rejects a request with malformed or missing parameters.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func conflict(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// storeErr converts store sentinels to service errors.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return conflict(err.Error())
	}
	return err
}
