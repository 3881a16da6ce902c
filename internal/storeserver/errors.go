package storeserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayoisaiah/focusroom/store"
)

// Error codes returned in the error envelope.
const (
	CodeNotFound     = "not_found"
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// APIError is the error body sent to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorEnvelope wraps an APIError in responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func badRequest(message string) *APIError {
	return newAPIError(http.StatusBadRequest, CodeBadRequest, message)
}

// fromError maps store errors to API errors.
func fromError(err error) *APIError {
	msg := err.Error()

	switch {
	case errors.Is(err, store.ErrNotFound):
		return newAPIError(http.StatusNotFound, CodeNotFound, msg)
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrEmailTaken):
		return newAPIError(http.StatusConflict, CodeConflict, msg)
	case errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, store.ErrUnauthenticated):
		return newAPIError(http.StatusUnauthorized, CodeUnauthorized, msg)
	case errors.Is(err, store.ErrForbidden):
		return newAPIError(http.StatusForbidden, CodeForbidden, msg)
	case errors.Is(err, store.ErrWeakPassword),
		errors.Is(err, store.ErrInvalidEmail),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrInvalidFilter),
		errors.Is(err, store.ErrInvalidPath):
		return badRequest(msg)
	default:
		return newAPIError(
			http.StatusInternalServerError,
			CodeInternal,
			"internal server error",
		)
	}
}

func writeError(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = fromError(err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error(
			"request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(apiErr.Status, ErrorEnvelope{Error: *apiErr})
}
