// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/bughub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	httpjson.Write(w, status, v)
}

// Write sends the error envelope.
func Write(w http.ResponseWriter, status int, msg string) {
	httpjson.Error(w, status, msg)
}

// ErrorLogger writes API errors and logs the ones that are our fault.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// Respond writes err as JSON. Errors that are not *Error become 500s.
func (l *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, err error) {
	e := As(err)
	if e.Status >= http.StatusInternalServerError {
		l.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(e.Err))
	} else {
		l.Log.Debug("request rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", e.Status),
			zap.String("message", e.Message))
	}
	Write(w, e.Status, e.Message)
}

// LogServerError logs a failed operation and answers 500.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error) {
	l.Log.Error(what,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	Write(w, http.StatusInternalServerError, "internal server error")
}
