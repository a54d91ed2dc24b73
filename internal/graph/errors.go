package graph

import (
	"errors"
	"fmt"

	"github.com/vk/nodegraph/internal/ident"
)

var (
	ErrUnknownIdentifier  = errors.New("unknown identifier")
	ErrNoParameterNamed   = errors.New("no parameter with that name")
	ErrDuplicateParameter = errors.New("duplicate parameter name")
	ErrCycle              = errors.New("cycle detected")
	ErrIncompatibleTypes  = errors.New("incompatible port types")
	ErrNotConnectable     = errors.New("input does not accept connections")
)

// UnknownIdentifierError reports a handle that is not, or no longer, present
// in the graph. Callers should drop their stale reference.
type UnknownIdentifierError struct {
	ID fmt.Stringer
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("%s was not found in the graph", e.ID)
}

func (e *UnknownIdentifierError) Unwrap() error { return ErrUnknownIdentifier }

func unknown(id fmt.Stringer) error {
	return &UnknownIdentifierError{ID: id}
}

// NoParameterNamedError reports a failed lookup by parameter name.
type NoParameterNamedError struct {
	Node ident.NodeID
	Name string
}

func (e *NoParameterNamedError) Error() string {
	return fmt.Sprintf("%s has no parameter named %q", e.Node, e.Name)
}

func (e *NoParameterNamedError) Unwrap() error { return ErrNoParameterNamed }

// ConnectionError wraps a refused AddConnection call.
type ConnectionError struct {
	Kind   error
	Output ident.OutputID
	Input  ident.InputID
	Msg    string
}

func (e *ConnectionError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("cannot connect %s to %s: %s", e.Output, e.Input, e.Kind)
	}
	return fmt.Sprintf("cannot connect %s to %s: %s: %s", e.Output, e.Input, e.Kind, e.Msg)
}

func (e *ConnectionError) Unwrap() error { return e.Kind }
