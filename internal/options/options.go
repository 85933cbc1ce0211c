// Package options implements the generic functional-option pattern used
// for build-time configuration (scale factor, jump interval) instead of
// long positional parameter lists.
package options

// Option configures a target of type T. Implementations are created via
// New or NoError rather than directly.
type Option[T any] interface {
	apply(T) error
}

// funcOption wraps a plain function as an Option.
type funcOption[T any] struct {
	applyFunc func(T) error
}

func (f *funcOption[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an Option from a function that can fail.
func New[T any](fn func(T) error) Option[T] {
	return &funcOption[T]{applyFunc: fn}
}

// NoError creates an Option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return &funcOption[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}
	return nil
}
