package graph

import (
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
)

// InputParamKind controls how an input may receive its value.
type InputParamKind int

const (
	// ConnectionOnly inputs only take values from an upstream output.
	ConnectionOnly InputParamKind = iota
	// ConstantOnly inputs only take an inline constant and refuse connections.
	ConstantOnly
	// ConnectionOrConstant inputs use a connection when present and fall back
	// to the inline constant otherwise.
	ConnectionOrConstant
)

func (k InputParamKind) String() string {
	switch k {
	case ConnectionOnly:
		return "connection-only"
	case ConstantOnly:
		return "constant-only"
	case ConnectionOrConstant:
		return "connection-or-constant"
	default:
		return "unknown"
	}
}

// AcceptsConnection reports whether inputs of this kind can be connected.
func (k InputParamKind) AcceptsConnection() bool {
	return k != ConstantOnly
}

// AcceptsConstant reports whether inputs of this kind read an inline value.
func (k InputParamKind) AcceptsConstant() bool {
	return k != ConnectionOnly
}

// Node is a vertex of the graph. Inputs and Outputs keep declaration order.
type Node[D any] struct {
	ID       ident.NodeID
	Label    string
	Inputs   []ident.InputID
	Outputs  []ident.OutputID
	UserData D
}

// InputParam is a typed attachment point that receives a value.
type InputParam struct {
	ID   ident.InputID
	Node ident.NodeID
	Name string
	Type value.DataType
	Kind InputParamKind
	// Value is the inline constant. It is meaningful only when HasValue is set;
	// an input without a value is "uninitialized".
	Value       value.Value
	HasValue    bool
	ShownInline bool
}

// OutputParam is a typed attachment point that produces a value during
// evaluation. It stores nothing itself.
type OutputParam struct {
	ID   ident.OutputID
	Node ident.NodeID
	Name string
	Type value.DataType
}

// Connection is one edge of the connection relation.
type Connection struct {
	Output ident.OutputID
	Input  ident.InputID
}

// Builder populates the parameters of a freshly allocated node.
type Builder[D any] func(g *Graph[D], id ident.NodeID) error

// CompatibilityFunc decides whether an output of type from may feed an input
// of type to.
type CompatibilityFunc func(from, to value.DataType) bool

// SameType is the default compatibility policy.
func SameType(from, to value.DataType) bool {
	return from == to
}

// AnyType accepts every pairing and leaves type checking to evaluation.
func AnyType(value.DataType, value.DataType) bool {
	return true
}
