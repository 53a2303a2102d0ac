package campdesk

import (
	"errors"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// Error is the failure half of a Result
type Error struct {
	Kind    db.Kind `json:"kind"`
	Message string  `json:"message"`
}

// Result carries either Data or an Error, never both
type Result[T any] struct {
	Data  T      `json:"data"`
	Error *Error `json:"error"`
}

// Empty is the data of operations that only report success
type Empty struct{}

// OK reports whether the result is a success
func (r Result[T]) OK() bool {
	return r.Error == nil
}

// Err returns the failure as a Go error, or nil on success
func (r Result[T]) Err() error {
	if r.Error == nil {
		return nil
	}
	return &db.Error{Kind: r.Error.Kind, Message: r.Error.Message}
}

// Succeed wraps data in a successful result
func Succeed[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail classifies err into a failed result
func Fail[T any](err error) Result[T] {
	return Result[T]{Error: classify(err)}
}

func from[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Succeed(data)
}

// classify reports the first classified error in err's chain. Its message is
// the classified error's own, without the wrapping context added by services.
func classify(err error) *Error {
	var e *db.Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Message: e.Error()}
	}
	return &Error{Kind: db.KindBackend, Message: err.Error()}
}
