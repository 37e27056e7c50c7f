package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is not in a state that allows the operation.
var ErrConflict = errors.New("state conflict")

// ErrConfiguration indicates that operator setup (e.g. the chart of accounts) is incomplete.
var ErrConfiguration = errors.New("configuration error")

// ErrForbidden indicates that the caller may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure in the service or its dependencies.
var ErrInternal = errors.New("internal error")

// AppError pairs a taxonomy kind with a human readable message.
// errors.Is(appErr, apperrors.ErrNotFound) holds when Kind is ErrNotFound.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewAppError builds an AppError of the given kind.
func NewAppError(kind error, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: cause}
}

// NewNotFoundError reports a missing resource of the given type and id.
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// NewValidationError reports bad input.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
