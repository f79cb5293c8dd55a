package domain

import (
	"errors"
	"fmt"
)

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry login attempts exhausted
var ErrUserTooManyRetry = errors.New("Too many login attempts, please retry later")

// ErrorKind classifies an AppError for the transport boundary
type ErrorKind int

const (
	// ErrKindMissingParameter a required input was absent or malformed
	ErrKindMissingParameter ErrorKind = iota + 1
	// ErrKindDataIntegrity a stored record cannot be interpreted, fail-closed
	ErrKindDataIntegrity
	// ErrKindStoreUnavailable the underlying store could not be reached or the query failed
	ErrKindStoreUnavailable
	// ErrKindNotFound a single-entity lookup matched nothing
	ErrKindNotFound
)

// AppError tagged error carrying an explicit kind
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewMissingParameterError a required input named name was absent
func NewMissingParameterError(name string) *AppError {
	return &AppError{
		Kind:    ErrKindMissingParameter,
		Message: fmt.Sprintf("%s is required", name),
	}
}

// NewInvalidStatusError status value outside the closed enumeration
func NewInvalidStatusError(raw string) *AppError {
	return &AppError{
		Kind:    ErrKindMissingParameter,
		Message: fmt.Sprintf("status %q must be one of NOT_STARTED, IN_PROGRESS, COMPLETED", raw),
	}
}

// NewDataIntegrityError a stored value could not be interpreted, names the offender
func NewDataIntegrityError(field, raw string) *AppError {
	return &AppError{
		Kind:    ErrKindDataIntegrity,
		Message: fmt.Sprintf("corrupted progress record: %s %q cannot be interpreted", field, raw),
	}
}

// NewStoreUnavailableError the store call named op failed
func NewStoreUnavailableError(op string, cause error) *AppError {
	return &AppError{
		Kind:    ErrKindStoreUnavailable,
		Message: fmt.Sprintf("%s: fetch failed", op),
		Cause:   cause,
	}
}

// NewNotFoundError the entity identified by id does not exist
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{
		Kind:    ErrKindNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// KindOf extract the ErrorKind from err, 0 if err carries none
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}
