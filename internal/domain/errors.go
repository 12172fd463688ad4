package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrCarUnavailable    = errors.New("car is unavailable for the requested dates")
	ErrInvalidTransition = errors.New("invalid rental status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation error")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsClientError reports errors caused by the request rather than the system.
func IsClientError(err error) bool {
	for _, target := range []error{ErrInvalidDateRange, ErrCarUnavailable, ErrInvalidTransition,
		ErrForbidden, ErrNotFound, ErrConflict, ErrValidation, ErrUnauthenticated} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
