package model

// Result carries one endpoint's outcome within a poll cycle. A failed slot
// holds a human-readable message instead of a value; other slots in the same
// cycle are unaffected.
type Result[T any] struct {
	Value T
	Err   string
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failure message.
func Fail[T any](msg string) Result[T] {
	return Result[T]{Err: msg}
}

// FailErr wraps an error's message, or returns Ok(v) when err is nil.
func FailErr[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{Err: err.Error()}
	}
	return Result[T]{Value: v}
}

// OK reports whether the slot holds a value.
func (r Result[T]) OK() bool {
	return r.Err == ""
}
