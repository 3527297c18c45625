// Package option provides small tagged-union helpers for values that may legitimately
// be absent (Option) and for operations whose failure cause matters to the caller (Result).
//
// Idiomatic Go still returns (value, error) from most functions. Result is used where
// a value and its failure travel together (i.e. stored on a struct or passed across a
// channel) and Get bridges it back to the (value, error) convention.
package option

// Option holds either no value (None) or exactly one value (Some)
type Option[T any] struct {
	value T
	some  bool
}

// Some returns an Option holding v
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, some: true}
}

// None returns an empty Option
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPointer returns None if p is nil and Some(*p) otherwise
func FromPointer[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

// IsSome returns true if the Option holds a value
func (o Option[T]) IsSome() bool {
	return o.some
}

// IsNone returns true if the Option is empty
func (o Option[T]) IsNone() bool {
	return !o.some
}

// Get returns the held value and true or the zero value and false when empty
func (o Option[T]) Get() (value T, ok bool) {
	return o.value, o.some
}

// OrElse returns the held value or def when empty
func (o Option[T]) OrElse(def T) T {
	if o.some {
		return o.value
	}

	return def
}

// Map applies fn to the value of o, if any
func Map[T, U any](o Option[T], fn func(T) U) Option[U] {
	if v, ok := o.Get(); ok {
		return Some(fn(v))
	}

	return None[U]()
}

// Result holds either a value (Ok) or an error (Err)
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result holding v
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err returns a failed Result. A nil err is a programming error and still yields
// a failed Result to stay on the safe side of the tag
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errNilResult
	}

	return Result[T]{err: err}
}

// Of builds a Result from the usual (value, error) pair
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}

	return Ok(v)
}

// IsOk returns true if the Result is successful
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Get returns the Result as a (value, error) pair
func (r Result[T]) Get() (value T, err error) {
	return r.value, r.err
}

// Err returns the error of a failed Result or nil
func (r Result[T]) Err() error {
	return r.err
}

// OrElse returns the value of a successful Result or def
func (r Result[T]) OrElse(def T) T {
	if r.err != nil {
		return def
	}

	return r.value
}

// Option converts the Result to an Option, dropping the error
func (r Result[T]) Option() Option[T] {
	if r.err != nil {
		return None[T]()
	}

	return Some(r.value)
}

type nilResultError struct{}

func (nilResultError) Error() string {
	return "option: Err called with a nil error"
}

var errNilResult error = nilResultError{}
