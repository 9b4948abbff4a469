package request

import (
	"context"
	"net/http"
)

type resultKind int

const (
	opaque resultKind = iota
	structured
)

// Result is the tagged outcome of a single network call. A structured result
// carries an HTTP status that the executor inspects; an opaque result is a value
// produced by a client that already translated failures into errors.
type Result[T any] struct {
	kind   resultKind
	status int
	value  T
}

// Response wraps an HTTP response body together with its status code.
func Response[T any](status int, body T) Result[T] {
	return Result[T]{kind: structured, status: status, value: body}
}

// Value wraps a result that has no status code of its own.
func Value[T any](v T) Result[T] {
	return Result[T]{kind: opaque, value: v}
}

// Structured reports whether r was built with Response.
func (r Result[T]) Structured() bool { return r.kind == structured }

// StatusCode returns the HTTP status of a structured result, or 0.
func (r Result[T]) StatusCode() int { return r.status }

// Get returns the wrapped value.
func (r Result[T]) Get() T { return r.value }

// ok reports whether the result counts as a success.
func (r Result[T]) ok() bool {
	return r.kind == opaque || r.status == http.StatusOK
}

// Operation performs one attempt of a network call.
type Operation[T any] func(ctx context.Context) (Result[T], error)

// Call names an operation and its arguments for log lines.
type Call struct {
	Name string
	Args []any
}

// Wrap adapts a client call that reports failures as errors into an Operation
// yielding opaque results.
func Wrap[T any](fn func(ctx context.Context) (T, error)) Operation[T] {
	return func(ctx context.Context) (Result[T], error) {
		v, err := fn(ctx)
		if err != nil {
			return Result[T]{}, err
		}
		return Value(v), nil
	}
}
