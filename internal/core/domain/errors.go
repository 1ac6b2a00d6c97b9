package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// and the HTTP layer maps them to status codes.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage failure")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	ErrMissingToken       = fmt.Errorf("%w: missing authorization token", ErrUnauthenticated)

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrArtworkNotFound      = fmt.Errorf("artwork %w", ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrPostNotFound         = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound      = fmt.Errorf("comment %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrCartNotFound         = fmt.Errorf("cart %w", ErrNotFound)

	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrCartEmpty         = fmt.Errorf("%w: cart is empty", ErrValidation)
)

// Kind is the stable, client-facing name of an error category.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation_failed"
	KindStorage         Kind = "storage_failed"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// KindOf classifies err. Errors that wrap none of the kinds are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindInternal
	}
}

// Invalid builds a validation error carrying a client-safe message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageFailure wraps an I/O error from the document or content store.
// Errors that already carry a kind are returned unchanged.
func StorageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
