// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"
)

// Error is an API failure carrying the HTTP status it maps to and the
// message shown to the caller. Err, when set, is the underlying cause and
// is only ever logged.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest: malformed input or identifier.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized: no session or an invalid one.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Forbidden: authenticated, but without the required relationship.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NotFound: the target entity does not exist.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Conflict: the entity is in a state that forbids the transition.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// TooManyRequests: the caller hit a rate limit.
func TooManyRequests(msg string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: msg}
}

// Internal wraps an unexpected failure. The cause is logged, never returned.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// As extracts an *Error from err, treating anything else as Internal.
func As(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Handler serves the router-level fallbacks.
// No DB needed; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, "Not found - "+r.URL.Path)
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, "method not allowed")
}
