package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tenauth/tenauth/pkg/httpx"
)

// API error codes carried in the "error" field of error responses.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeAuthenticationFailed = "authentication_failed"
	ErrorCodeValidationFailed     = "validation_failed"
	ErrorCodeConflict             = "conflict"
	ErrorCodeNotFound             = "not_found"
	ErrorCodeForbidden            = "forbidden"
	ErrorCodeServerError          = "server_error"
)

// APIError is the wire form of a failed request: {error, error_description},
// optionally with per-field details for validation failures. Used by the
// server to write responses and by the client to surface them.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string            `json:"error"`
	Description string            `json:"error_description"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// WithFields returns a copy of the error carrying field-level details.
func (e *APIError) WithFields(fields map[string]string) *APIError {
	clone := *e
	clone.Fields = fields
	return &clone
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrAuthenticationFailed is the single answer to every credential
	// failure. It never says which part was wrong.
	ErrAuthenticationFailed = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAuthenticationFailed,
		Description: "invalid credentials",
	}

	ErrValidationFailed = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidationFailed,
		Description: "one or more fields failed validation",
	}

	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "the resource conflicts with existing data",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "the resource does not exist",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "the caller lacks the required privilege",
	}

	// ErrUnavailable marks a transient backend failure worth retrying.
	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeServerError,
		Description: "temporarily unavailable, retry later",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
