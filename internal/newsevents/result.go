package newsevents

import "newsdesk/internal/contentful"

// Result is the outcome of one guarded read. A failed Result never carries a
// usable Value, so callers can tell "no entries" from "fetch failed".
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail wraps a fetch failure.
func Fail[T any](err error) Result[T] { return Result[T]{Err: err} }

// OK reports whether the read succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Get returns the value and the error, in the usual Go shape.
func (r Result[T]) Get() (T, error) { return r.Value, r.Err }

// MarshalJSON renders a failed result as null.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return []byte("null"), nil
	}
	return contentful.JSON.Marshal(r.Value)
}
