package graph

import (
	"fmt"
	"slices"

	"github.com/vk/nodegraph/internal/arena"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
)

// Graph owns nodes, parameters and connections. D is the opaque per-node
// payload; the template layer stores which template built the node there.
type Graph[D any] struct {
	nodes   *arena.Arena[ident.NodeID, *Node[D]]
	inputs  *arena.Arena[ident.InputID, *InputParam]
	outputs *arena.Arena[ident.OutputID, *OutputParam]

	// connections maps each connected input to its single upstream output.
	connections map[ident.InputID]ident.OutputID
	compatible  CompatibilityFunc
}

// Option configures a Graph.
type Option func(*options)

type options struct {
	compatible CompatibilityFunc
}

// WithCompatibility replaces the default SameType connection policy.
func WithCompatibility(fn CompatibilityFunc) Option {
	return func(o *options) {
		o.compatible = fn
	}
}

// New creates an empty graph.
func New[D any](opts ...Option) *Graph[D] {
	o := options{compatible: SameType}
	for _, opt := range opts {
		opt(&o)
	}
	return &Graph[D]{
		nodes:       arena.New[ident.NodeID, *Node[D]](),
		inputs:      arena.New[ident.InputID, *InputParam](),
		outputs:     arena.New[ident.OutputID, *OutputParam](),
		connections: make(map[ident.InputID]ident.OutputID),
		compatible:  o.compatible,
	}
}

// AddNode allocates a node and runs build so the node's parameters exist
// before the id is handed out. If build fails the half-built node is removed.
func (g *Graph[D]) AddNode(label string, userData D, build Builder[D]) (ident.NodeID, error) {
	id := g.nodes.Insert(func(id ident.NodeID) *Node[D] {
		return &Node[D]{ID: id, Label: label, UserData: userData}
	})
	if build == nil {
		return id, nil
	}
	if err := build(g, id); err != nil {
		_, _ = g.RemoveNode(id)
		return 0, fmt.Errorf("building node %q: %w", label, err)
	}
	return id, nil
}

// AddInputParam appends an input to a node. Pass a nil initial value to leave
// the input uninitialized.
func (g *Graph[D]) AddInputParam(nodeID ident.NodeID, name string, typ value.DataType, initial *value.Value, kind InputParamKind, shownInline bool) (ident.InputID, error) {
	n, ok := g.nodes.Get(nodeID)
	if !ok {
		return 0, unknown(nodeID)
	}
	if _, err := g.GetInput(nodeID, name); err == nil {
		return 0, fmt.Errorf("%s input %q: %w", nodeID, name, ErrDuplicateParameter)
	}

	id := g.inputs.Insert(func(id ident.InputID) *InputParam {
		p := &InputParam{ID: id, Node: nodeID, Name: name, Type: typ, Kind: kind, ShownInline: shownInline}
		if initial != nil {
			p.Value, p.HasValue = *initial, true
		}
		return p
	})
	n.Inputs = append(n.Inputs, id)
	return id, nil
}

// AddOutputParam appends an output to a node.
func (g *Graph[D]) AddOutputParam(nodeID ident.NodeID, name string, typ value.DataType) (ident.OutputID, error) {
	n, ok := g.nodes.Get(nodeID)
	if !ok {
		return 0, unknown(nodeID)
	}
	if _, err := g.GetOutput(nodeID, name); err == nil {
		return 0, fmt.Errorf("%s output %q: %w", nodeID, name, ErrDuplicateParameter)
	}

	id := g.outputs.Insert(func(id ident.OutputID) *OutputParam {
		return &OutputParam{ID: id, Node: nodeID, Name: name, Type: typ}
	})
	n.Outputs = append(n.Outputs, id)
	return id, nil
}

// Node returns a copy of the node with the given id.
func (g *Graph[D]) Node(id ident.NodeID) (Node[D], error) {
	n, ok := g.nodes.Get(id)
	if !ok {
		return Node[D]{}, unknown(id)
	}
	cp := *n
	cp.Inputs = slices.Clone(n.Inputs)
	cp.Outputs = slices.Clone(n.Outputs)
	return cp, nil
}

// HasNode reports whether id is live.
func (g *Graph[D]) HasNode(id ident.NodeID) bool {
	return g.nodes.Contains(id)
}

// Nodes returns every live node id in creation order.
func (g *Graph[D]) Nodes() []ident.NodeID {
	return g.nodes.Keys()
}

// Input returns a copy of the input parameter with the given id.
func (g *Graph[D]) Input(id ident.InputID) (InputParam, error) {
	p, ok := g.inputs.Get(id)
	if !ok {
		return InputParam{}, unknown(id)
	}
	return *p, nil
}

// Output returns a copy of the output parameter with the given id.
func (g *Graph[D]) Output(id ident.OutputID) (OutputParam, error) {
	p, ok := g.outputs.Get(id)
	if !ok {
		return OutputParam{}, unknown(id)
	}
	return *p, nil
}

// GetInput finds a node's input by its declared name.
func (g *Graph[D]) GetInput(nodeID ident.NodeID, name string) (ident.InputID, error) {
	n, ok := g.nodes.Get(nodeID)
	if !ok {
		return 0, unknown(nodeID)
	}
	for _, id := range n.Inputs {
		if p, ok := g.inputs.Get(id); ok && p.Name == name {
			return id, nil
		}
	}
	return 0, &NoParameterNamedError{Node: nodeID, Name: name}
}

// GetOutput finds a node's output by its declared name.
func (g *Graph[D]) GetOutput(nodeID ident.NodeID, name string) (ident.OutputID, error) {
	n, ok := g.nodes.Get(nodeID)
	if !ok {
		return 0, unknown(nodeID)
	}
	for _, id := range n.Outputs {
		if p, ok := g.outputs.Get(id); ok && p.Name == name {
			return id, nil
		}
	}
	return 0, &NoParameterNamedError{Node: nodeID, Name: name}
}

// SetInputValue replaces the inline constant of an input. The store does not
// check the value against the input's DataType; mismatches surface when the
// value is cast during evaluation.
func (g *Graph[D]) SetInputValue(id ident.InputID, v value.Value) error {
	p, ok := g.inputs.Get(id)
	if !ok {
		return unknown(id)
	}
	p.Value, p.HasValue = v, true
	return nil
}

// ClearInputValue returns an input to the uninitialized state.
func (g *Graph[D]) ClearInputValue(id ident.InputID) error {
	p, ok := g.inputs.Get(id)
	if !ok {
		return unknown(id)
	}
	p.Value, p.HasValue = value.Value{}, false
	return nil
}

// Connection returns the output currently feeding input, if any.
func (g *Graph[D]) Connection(input ident.InputID) (ident.OutputID, bool) {
	out, ok := g.connections[input]
	return out, ok
}

// Connections lists every connection ordered by input creation order.
func (g *Graph[D]) Connections() []Connection {
	conns := make([]Connection, 0, len(g.connections))
	for _, in := range g.inputs.Keys() {
		if out, ok := g.connections[in]; ok {
			conns = append(conns, Connection{Output: out, Input: in})
		}
	}
	return conns
}

// AddConnection makes output feed input, replacing any previous connection of
// input. The edge is refused if either handle is unknown, if input only takes
// constants, if the port types are incompatible, or if it would close a cycle.
func (g *Graph[D]) AddConnection(output ident.OutputID, input ident.InputID) error {
	out, ok := g.outputs.Get(output)
	if !ok {
		return unknown(output)
	}
	in, ok := g.inputs.Get(input)
	if !ok {
		return unknown(input)
	}

	if !in.Kind.AcceptsConnection() {
		return &ConnectionError{Kind: ErrNotConnectable, Output: output, Input: input, Msg: in.Name}
	}
	if !g.compatible(out.Type, in.Type) {
		return &ConnectionError{
			Kind:   ErrIncompatibleTypes,
			Output: output,
			Input:  input,
			Msg:    fmt.Sprintf("%s does not fit %s", out.Type.Name(), in.Type.Name()),
		}
	}
	if path, found := g.pathBetween(in.Node, out.Node); found {
		return &ConnectionError{Kind: ErrCycle, Output: output, Input: input, Msg: formatPath(path)}
	}

	g.connections[input] = output
	return nil
}

// RemoveConnection disconnects input and returns the output it was fed from.
func (g *Graph[D]) RemoveConnection(input ident.InputID) (ident.OutputID, bool) {
	out, ok := g.connections[input]
	if ok {
		delete(g.connections, input)
	}
	return out, ok
}

// RemoveNode deletes a node, its parameters and every connection touching
// them. The removed connections are returned so callers can react to them.
func (g *Graph[D]) RemoveNode(id ident.NodeID) ([]Connection, error) {
	n, ok := g.nodes.Get(id)
	if !ok {
		return nil, unknown(id)
	}

	owned := make(map[ident.OutputID]struct{}, len(n.Outputs))
	for _, out := range n.Outputs {
		owned[out] = struct{}{}
	}

	var removed []Connection
	for _, c := range g.Connections() {
		_, fromNode := owned[c.Output]
		toNode := slices.Contains(n.Inputs, c.Input)
		if fromNode || toNode {
			delete(g.connections, c.Input)
			removed = append(removed, c)
		}
	}

	for _, in := range n.Inputs {
		g.inputs.Remove(in)
	}
	for _, out := range n.Outputs {
		g.outputs.Remove(out)
	}
	g.nodes.Remove(id)
	return removed, nil
}

// Upstream returns the distinct nodes that feed id, in input order.
func (g *Graph[D]) Upstream(id ident.NodeID) ([]ident.NodeID, error) {
	n, ok := g.nodes.Get(id)
	if !ok {
		return nil, unknown(id)
	}
	var deps []ident.NodeID
	for _, in := range n.Inputs {
		out, ok := g.connections[in]
		if !ok {
			continue
		}
		if p, ok := g.outputs.Get(out); ok && !slices.Contains(deps, p.Node) {
			deps = append(deps, p.Node)
		}
	}
	return deps, nil
}

// Downstream returns the distinct nodes fed by any output of id, in input
// creation order.
func (g *Graph[D]) Downstream(id ident.NodeID) ([]ident.NodeID, error) {
	if !g.nodes.Contains(id) {
		return nil, unknown(id)
	}
	var dependents []ident.NodeID
	for _, c := range g.Connections() {
		out, ok := g.outputs.Get(c.Output)
		if !ok || out.Node != id {
			continue
		}
		if in, ok := g.inputs.Get(c.Input); ok && !slices.Contains(dependents, in.Node) {
			dependents = append(dependents, in.Node)
		}
	}
	return dependents, nil
}
