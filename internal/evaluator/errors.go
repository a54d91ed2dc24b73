package evaluator

import (
	"errors"
	"fmt"

	"github.com/vk/nodegraph/internal/ident"
)

var (
	// ErrMissingValue is returned for an input that has neither a connection
	// nor a usable inline constant.
	ErrMissingValue = errors.New("input has no value")
	// ErrCacheInvariantViolated means a producer returned without writing the
	// output a consumer asked for. It indicates a bug, not bad user input.
	ErrCacheInvariantViolated = errors.New("output missing from cache after evaluation")
)

// InputError attaches a failure to the input and node it occurred on.
type InputError struct {
	Node  ident.NodeID
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %q of %s: %v", e.Input, e.Node, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
