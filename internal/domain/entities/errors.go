package entities

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeStore        ErrorCode = "STORE"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StoreFailure wraps a connection or query failure.
func StoreFailure(op string, err error) *Error {
	return WrapError(ErrCodeStore, op, err)
}

// InvalidInput builds a rejection of caller-supplied data.
func InvalidInput(message string, err error) *Error {
	return WrapError(ErrCodeInvalid, message, err)
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
