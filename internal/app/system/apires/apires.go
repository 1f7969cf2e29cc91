// internal/app/system/apires/apires.go

// Package apires implements the uniform response envelope used by every
// endpoint, and the application error type the handlers raise.
//
// Success:  { statusCode, data, message, success: true }
// Failure:  { statusCode, message, errors: [], success: false }
//
// The HTTP status always mirrors statusCode.
package apires

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the wire shape shared by success and failure responses.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data,omitempty"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
	Success    bool     `json:"success"`
}

// E is an error with an HTTP status. Handler helpers raise these for
// expected failures; any other error is treated as a 500.
type E struct {
	Status  int
	Message string
}

func (e *E) Error() string { return e.Message }

// BadRequest is a 400: missing or malformed input.
func BadRequest(msg string) *E { return &E{Status: http.StatusBadRequest, Message: msg} }

// Forbidden is a 403: role or ownership violation.
func Forbidden(msg string) *E { return &E{Status: http.StatusForbidden, Message: msg} }

// NotFound is a 404: missing entity, or an entity outside the caller's
// scope (indistinguishable by design).
func NotFound(msg string) *E { return &E{Status: http.StatusNotFound, Message: msg} }

// Conflict is a 409: uniqueness, capacity, or duplicate violation.
func Conflict(msg string) *E { return &E{Status: http.StatusConflict, Message: msg} }

// OK writes a success envelope with the given status and payload.
func OK(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Fail writes a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Message:    message,
		Errors:     []string{},
		Success:    false,
	})
}

// Error writes err as a failure envelope. Known *E values keep their
// status; anything else is logged and reported as a plain 500 so store
// internals never leak to the caller.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *E
	if errors.As(err, &appErr) {
		Fail(w, appErr.Status, appErr.Message)
		return
	}
	if logger != nil {
		logger.Error("unhandled error", zap.Error(err))
	}
	Fail(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
