package models

// Result is the outcome of a call across the remote API boundary.
// Failures are carried in Err with Success set to false instead of being returned as errors.
type Result[T any] struct {
	Success bool
	Data    T
	Err     error
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// ErrorMessage returns the failure text, or an empty string on success.
func (r Result[T]) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
