package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthenticationFailed covers every login/refresh failure the caller is
	// allowed to see: unknown user, wrong password, inactive account, bad or
	// replayed refresh token. The reasons are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication_failed")

	ErrValidationFailed = errors.New("validation_failed")

	// ErrConflict reports a uniqueness or reference violation: duplicate code,
	// duplicate name, or a delete blocked by dependent rows.
	ErrConflict = errors.New("conflict")

	ErrNotFound = errors.New("not_found")

	// ErrTransient reports an infrastructure failure (timeout, connection)
	// that the caller may retry.
	ErrTransient = errors.New("transient_failure")
)

// ValidationError carries per-field messages. It unwraps to
// ErrValidationFailed so callers can branch on the sentinel.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation_failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
