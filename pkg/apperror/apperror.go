package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConstraintViolation
	KindInvalidInput
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindConstraintViolation:
		return "CONSTRAINT_VIOLATION"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindStorageFailure:
		return "STORAGE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Sentinels for errors.Is matching against a kind.
var (
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation, Message: "constraint violation"}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrStorageFailure      = &Error{Kind: KindStorageFailure, Message: "storage failure"}
)

// Error is a domain error carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when the target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ConstraintViolation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConstraintViolation, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// StorageFailure wraps a driver or connection error.
func StorageFailure(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorageFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or zero when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
