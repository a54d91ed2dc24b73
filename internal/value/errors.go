package value

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is the sentinel wrapped by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNonFinite    = errors.New("non-finite number")
)

// TypeMismatchError reports a cast to the wrong payload shape.
type TypeMismatchError struct {
	Expected DataType
	Actual   DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid cast from %s to %s", e.Actual.Name(), e.Expected.Name())
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func mismatch(expected, actual DataType) error {
	return &TypeMismatchError{Expected: expected, Actual: actual}
}

// NonFiniteError reports a NaN or infinite component that has no document
// form.
type NonFiniteError struct {
	Value float32
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("cannot encode %v: %v", e.Value, ErrNonFinite)
}

func (e *NonFiniteError) Unwrap() error { return ErrNonFinite }
