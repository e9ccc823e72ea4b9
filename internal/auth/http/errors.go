package http

import (
	"errors"
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto wire responses.
// Anything unrecognized is a 500 and gets logged; the client only ever sees
// the generic description.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		authsdk.ErrAuthenticationFailed.WriteError(w)
	case errors.As(err, &vErr):
		authsdk.ErrValidationFailed.WithFields(vErr.Fields).WriteError(w)
	case errors.Is(err, service.ErrValidationFailed):
		authsdk.ErrValidationFailed.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		authsdk.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrTransient):
		authsdk.ErrUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err,
			"method", r.Method, "path", r.URL.Path)
		authsdk.ErrServerError.WriteError(w)
	}
}

// decodeJSON reads a JSON body into dst, rejecting unknown garbage with a
// 400. Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(r, dst); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}
