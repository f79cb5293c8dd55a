package http

import (
	"errors"
	"net/http"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

// Envelope uniform response wrapper used by every endpoint
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// NewSuccessEnvelope wrap payload data
func NewSuccessEnvelope(data interface{}) *Envelope {
	return &Envelope{
		Status: statusSuccess,
		Data:   data,
	}
}

// NewSuccessMessageEnvelope success with a human readable message only
func NewSuccessMessageEnvelope(message string) *Envelope {
	return &Envelope{
		Status:  statusSuccess,
		Message: message,
	}
}

// NewErrorEnvelope error with a human readable message
func NewErrorEnvelope(message string) *Envelope {
	return &Envelope{
		Status:  statusError,
		Message: message,
		Error:   message,
	}
}

// NewValidationEnvelope field level validation failure, details ride in data
func NewValidationEnvelope(fields []*validate.FieldError) *Envelope {
	return &Envelope{
		Status:  statusError,
		Message: "Failed to validate params",
		Error:   "Failed to validate params",
		Data:    fields,
	}
}

// statusCodeOf map domain errors onto HTTP status codes
func statusCodeOf(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrKindMissingParameter:
		return http.StatusBadRequest
	case domain.ErrKindNotFound:
		return http.StatusNotFound
	case domain.ErrKindDataIntegrity, domain.ErrKindStoreUnavailable:
		return http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, domain.ErrDuplicatedUser), errors.Is(err, domain.ErrDuplicatedFriendship):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoSuchUser):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSelfFriendship):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserTooManyRetry):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError terminal error path for every handler, never leaks internals
func respondError(c echo.Context, err error) error {
	return c.JSON(statusCodeOf(err), NewErrorEnvelope(err.Error()))
}
