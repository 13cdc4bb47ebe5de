// Package apperror defines the error taxonomy shared by the service layer
// and mapped to HTTP status codes by the API handlers.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrProjectNotFound      = errors.New("project not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("forbidden")
	ErrValidation           = errors.New("validation failed")
)

// AppError pairs a taxonomy sentinel with a human-readable message.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap attaches a message to a sentinel. The result satisfies
// errors.Is(err, sentinel).
func Wrap(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}
