package db

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by a store or service
type Kind string

const (
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindNotFound           Kind = "NotFound"
	KindForbidden          Kind = "Forbidden"
	KindAlreadyReserved    Kind = "AlreadyReserved"
	KindNoCapacity         Kind = "NoCapacity"
	KindInvalidInput       Kind = "InvalidInput"
	KindBackend            Kind = "BackendError"
)

// Error is a classified failure. Two errors match under errors.Is when their
// kinds are equal, so callers can compare against the sentinels below.
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

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail, Message: "user already exists with this email"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "operation not permitted"}
	ErrAlreadyReserved    = &Error{Kind: KindAlreadyReserved, Message: "you already have a camp selected"}
	ErrNoCapacity         = &Error{Kind: KindNoCapacity, Message: "no beds available in this camp"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Message: "invalid input"}
)

// NewError builds a classified error with a specific message
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BackendError wraps an unclassified failure from the underlying backend
func BackendError(op string, err error) *Error {
	return &Error{Kind: KindBackend, Message: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
// Unclassified errors are reported as backend errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}
