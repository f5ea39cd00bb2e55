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

// ErrInvalidState indicates that a requisition is terminal or blocked and
// cannot accept any further workflow action.
var ErrInvalidState = errors.New("requisition state does not allow this action")

// ErrUnsupportedTransition indicates that the routing table has no entry
// for the (level, action) pair.
var ErrUnsupportedTransition = errors.New("unsupported transition for current level")

// ErrBudgetExceeded indicates that committing an amount would overrun the
// allocated budget line.
var ErrBudgetExceeded = errors.New("budget line exceeded")

// ErrInsufficientFunds indicates that treasury funds cannot cover a settlement.
var ErrInsufficientFunds = errors.New("insufficient treasury funds")

// ErrStaleState indicates that the requisition was modified concurrently;
// the caller may re-read and retry.
var ErrStaleState = errors.New("requisition was modified concurrently")

// AppError carries an HTTP-ish status code alongside the wrapped cause so
// repositories can classify failures without importing transport packages.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
