// Package errors defines the JSON envelope every API response uses and the
// application error carried in its failure branch.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"revenue-dashboard/internal/observability"
)

type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"
)

var statusByCode = map[ErrorCode]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeBadRequest: http.StatusBadRequest,
	CodeRateLimit:  http.StatusTooManyRequests,
}

type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Field     string    `json:"field,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Status is the HTTP status the error is written with.
func (e *AppError) Status() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.cause = err
	return appErr
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func RateLimit(message string) *AppError {
	return New(CodeRateLimit, message)
}

// InvalidParam reports a request parameter that could not be used. The
// parse error goes to Details so clients see why.
func InvalidParam(name, value string, err error) *AppError {
	appErr := Wrap(err, CodeBadRequest, fmt.Sprintf("invalid %s %q", name, value))
	appErr.Field = name
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// WriteError renders err in the failure envelope. Anything that is not an
// *AppError somewhere in its chain is reported as an internal error without
// leaking its text.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = Wrap(err, CodeInternal, "An unexpected error occurred")
	}
	appErr.RequestID = observability.GetRequestID(r.Context())

	level := slog.LevelWarn
	if appErr.Status() >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"status_code", appErr.Status(),
		"request_id", appErr.RequestID,
		"cause", appErr.cause,
	)

	writeJSON(w, logger, appErr.Status(), ErrorResponse{Error: appErr})
}

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, slog.Default(), http.StatusOK, SuccessResponse{Data: data, Success: true})
}

func WriteSuccessWithHeaders(w http.ResponseWriter, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteSuccess(w, data)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err, "status", status)
	}
}
