package templates

import (
	"fmt"

	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
)

// Template is a node kind.
type Template int

const (
	MakeScalar Template = iota
	AddScalar
	SubtractScalar
	MakeVector
	AddVector
	SubtractVector
	VectorTimesScalar
	Scaffold
	Text
)

// NodeData is the payload stored on every node built from a template. The
// evaluator dispatches on it.
type NodeData struct {
	Template Template
}

// Graph is the graph type produced by this package.
type Graph = graph.Graph[NodeData]

// InputSpec declares one input port.
type InputSpec struct {
	Name string
	Type value.DataType
	Kind graph.InputParamKind
	// Default seeds the inline constant. Nil leaves the input uninitialized.
	Default     *value.Value
	ShownInline bool
}

// OutputSpec declares one output port.
type OutputSpec struct {
	Name string
	Type value.DataType
}

// Shape is the full, ordered port layout of a template.
type Shape struct {
	Inputs  []InputSpec
	Outputs []OutputSpec
}

func defaultOf(t value.DataType) *value.Value {
	v := value.Default(t)
	return &v
}

func scalarIn(name string) InputSpec {
	return InputSpec{Name: name, Type: value.Scalar, Kind: graph.ConnectionOrConstant, Default: defaultOf(value.Scalar), ShownInline: true}
}

func vectorIn(name string) InputSpec {
	return InputSpec{Name: name, Type: value.Vector, Kind: graph.ConnectionOrConstant, Default: defaultOf(value.Vector), ShownInline: true}
}

// Widget inputs start uninitialized so that an unconnected slot is left out
// of the assembled document.
func widgetIn(name string) InputSpec {
	return InputSpec{Name: name, Type: value.Widget, Kind: graph.ConnectionOrConstant, ShownInline: true}
}

func textIn(name string) InputSpec {
	return InputSpec{Name: name, Type: value.Text, Kind: graph.ConnectionOrConstant, Default: defaultOf(value.Text), ShownInline: true}
}

func out(name string, t value.DataType) OutputSpec {
	return OutputSpec{Name: name, Type: t}
}

var shapes = map[Template]Shape{
	MakeScalar:        {Inputs: []InputSpec{scalarIn("value")}, Outputs: []OutputSpec{out("out", value.Scalar)}},
	AddScalar:         {Inputs: []InputSpec{scalarIn("A"), scalarIn("B")}, Outputs: []OutputSpec{out("out", value.Scalar)}},
	SubtractScalar:    {Inputs: []InputSpec{scalarIn("A"), scalarIn("B")}, Outputs: []OutputSpec{out("out", value.Scalar)}},
	MakeVector:        {Inputs: []InputSpec{scalarIn("x"), scalarIn("y")}, Outputs: []OutputSpec{out("out", value.Vector)}},
	AddVector:         {Inputs: []InputSpec{vectorIn("v1"), vectorIn("v2")}, Outputs: []OutputSpec{out("out", value.Vector)}},
	SubtractVector:    {Inputs: []InputSpec{vectorIn("v1"), vectorIn("v2")}, Outputs: []OutputSpec{out("out", value.Vector)}},
	VectorTimesScalar: {Inputs: []InputSpec{scalarIn("scalar"), vectorIn("vector")}, Outputs: []OutputSpec{out("out", value.Vector)}},
	Scaffold:          {Inputs: []InputSpec{widgetIn("body"), widgetIn("header")}, Outputs: []OutputSpec{out("widget", value.Widget)}},
	Text:              {Inputs: []InputSpec{textIn("text")}, Outputs: []OutputSpec{out("widget", value.Widget)}},
}

// Name is the stable kind key, as used in graph files.
func (t Template) Name() string {
	switch t {
	case MakeScalar:
		return "MakeScalar"
	case AddScalar:
		return "AddScalar"
	case SubtractScalar:
		return "SubtractScalar"
	case MakeVector:
		return "MakeVector"
	case AddVector:
		return "AddVector"
	case SubtractVector:
		return "SubtractVector"
	case VectorTimesScalar:
		return "VectorTimesScalar"
	case Scaffold:
		return "Scaffold"
	case Text:
		return "Text"
	default:
		return fmt.Sprintf("Template(%d)", int(t))
	}
}

func (t Template) String() string { return t.Name() }

// FinderLabel is the label shown in a node creation menu.
func (t Template) FinderLabel() string {
	switch t {
	case MakeScalar:
		return "New scalar"
	case AddScalar:
		return "Scalar add"
	case SubtractScalar:
		return "Scalar subtract"
	case MakeVector:
		return "New vector"
	case AddVector:
		return "Vector add"
	case SubtractVector:
		return "Vector subtract"
	case VectorTimesScalar:
		return "Vector times scalar"
	case Scaffold:
		return "Scaffold"
	case Text:
		return "Text"
	default:
		return t.Name()
	}
}

// GraphLabel is the label given to nodes built from t.
func (t Template) GraphLabel() string {
	return t.FinderLabel()
}

// Categories groups t in a node creation menu. A template may appear in more
// than one group.
func (t Template) Categories() []string {
	switch t {
	case MakeScalar, AddScalar, SubtractScalar:
		return []string{"Scalar"}
	case MakeVector, AddVector, SubtractVector:
		return []string{"Vector"}
	case VectorTimesScalar:
		return []string{"Vector", "Scalar"}
	case Scaffold, Text:
		return []string{"Widget"}
	default:
		return nil
	}
}

// Shape returns the port layout declared for t. The returned slices are
// copies.
func (t Template) Shape() Shape {
	s := shapes[t]
	return Shape{
		Inputs:  append([]InputSpec(nil), s.Inputs...),
		Outputs: append([]OutputSpec(nil), s.Outputs...),
	}
}

// Valid reports whether t is one of the declared templates.
func (t Template) Valid() bool {
	_, ok := shapes[t]
	return ok
}

// UserData returns the node payload recording t.
func (t Template) UserData() NodeData {
	return NodeData{Template: t}
}

// Build wires t's ports onto the node id. It is the graph.Builder for t.
func (t Template) Build(g *Graph, id ident.NodeID) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTemplate, int(t))
	}
	shape := shapes[t]
	for _, in := range shape.Inputs {
		if _, err := g.AddInputParam(id, in.Name, in.Type, in.Default, in.Kind, in.ShownInline); err != nil {
			return err
		}
	}
	for _, o := range shape.Outputs {
		if _, err := g.AddOutputParam(id, o.Name, o.Type); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate adds a node built from t to g.
func Instantiate(g *Graph, t Template) (ident.NodeID, error) {
	return g.AddNode(t.GraphLabel(), t.UserData(), t.Build)
}
