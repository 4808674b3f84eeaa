// Package apperr defines the error taxonomy shared by the wizard, the
// services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	TypeValidation      ErrorType = "validation_failed"
	TypeUnauthenticated ErrorType = "unauthenticated"
	TypePersistence     ErrorType = "persistence_failed"
	TypeNotFound        ErrorType = "not_found"
	TypeForbidden       ErrorType = "forbidden"
	TypeConflict        ErrorType = "conflict"
)

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// AppError carries a type, a user-facing message and optionally the
// underlying cause and per-field messages.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// Validation reports a guard failure. It is recoverable and never fatal.
func Validation(message string, fields ...FieldError) *AppError {
	return &AppError{Type: TypeValidation, Message: message, Fields: fields}
}

func Unauthenticated(message string) *AppError {
	return New(TypeUnauthenticated, message, nil)
}

// Persistence wraps a storage failure. The cause's message is kept
// verbatim as the user-facing message.
func Persistence(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == TypePersistence {
		return appErr
	}
	return New(TypePersistence, err.Error(), err)
}

func NotFound(message string, err error) *AppError {
	return New(TypeNotFound, message, err)
}

func Forbidden(message string) *AppError {
	return New(TypeForbidden, message, nil)
}

func Conflict(message string) *AppError {
	return New(TypeConflict, message, nil)
}

// TypeOf returns the ErrorType of err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// FieldsOf returns the field-level messages carried by err.
func FieldsOf(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

func IsValidation(err error) bool      { return TypeOf(err) == TypeValidation }
func IsUnauthenticated(err error) bool { return TypeOf(err) == TypeUnauthenticated }
func IsPersistence(err error) bool     { return TypeOf(err) == TypePersistence }
func IsNotFound(err error) bool        { return TypeOf(err) == TypeNotFound }
func IsForbidden(err error) bool       { return TypeOf(err) == TypeForbidden }
func IsConflict(err error) bool        { return TypeOf(err) == TypeConflict }
