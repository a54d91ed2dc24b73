package hclgraph

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
)

var (
	ErrDuplicateNode = errors.New("duplicate node name")
	ErrUnknownNode   = errors.New("unknown node name")
	ErrBadReference  = errors.New("invalid node reference")
)

// File is a loaded graph together with the names it was declared with.
type File struct {
	Graph  *templates.Graph
	Target string
	// Names lists node names in declaration order.
	Names []string
	nodes map[string]ident.NodeID
}

// Node resolves a declared node name.
func (f *File) Node(name string) (ident.NodeID, error) {
	id, ok := f.nodes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return id, nil
}

// Name returns the declared name of id.
func (f *File) Name(id ident.NodeID) (string, bool) {
	for name, n := range f.nodes {
		if n == id {
			return name, true
		}
	}
	return "", false
}

type fileRoot struct {
	Target *string      `hcl:"target,optional"`
	Nodes  []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Name     string       `hcl:"name,label"`
	Template string       `hcl:"template"`
	Label    *string      `hcl:"label,optional"`
	Inputs   *inputsBlock `hcl:"inputs,block"`
}

type inputsBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Loader builds graphs from HCL using the templates of a registry.
type Loader struct {
	registry *templates.Registry
	opts     []graph.Option
}

// NewLoader creates a loader. The graph options are applied to every graph
// it builds.
func NewLoader(reg *templates.Registry, opts ...graph.Option) *Loader {
	return &Loader{registry: reg, opts: opts}
}

// Load reads and builds the graph file at path.
func (l *Loader) Load(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	return l.Parse(ctx, src, path)
}

// Parse builds a graph from HCL source. filename is used in diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing graph file.", "file", filename)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	f := &File{
		Graph: graph.New[templates.NodeData](l.opts...),
		nodes: make(map[string]ident.NodeID, len(root.Nodes)),
	}
	if root.Target != nil {
		f.Target = *root.Target
	}

	// Nodes first, so that references may point forward.
	for _, nb := range root.Nodes {
		if err := l.addNode(f, nb); err != nil {
			return nil, err
		}
	}
	for _, nb := range root.Nodes {
		if err := l.applyInputs(f, nb); err != nil {
			return nil, err
		}
	}

	if f.Target != "" {
		if _, err := f.Node(f.Target); err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
	}

	logger.Debug("Graph file loaded.", "file", filename, "nodes", len(f.Names), "connections", len(f.Graph.Connections()))
	return f, nil
}

func (l *Loader) addNode(f *File, nb *nodeBlock) error {
	if _, exists := f.nodes[nb.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, nb.Name)
	}
	t, err := l.registry.Lookup(nb.Template)
	if err != nil {
		return fmt.Errorf("node %q: %w", nb.Name, err)
	}
	label := t.GraphLabel()
	if nb.Label != nil {
		label = *nb.Label
	}
	id, err := f.Graph.AddNode(label, t.UserData(), t.Build)
	if err != nil {
		return fmt.Errorf("node %q: %w", nb.Name, err)
	}
	f.nodes[nb.Name] = id
	f.Names = append(f.Names, nb.Name)
	return nil
}

func (l *Loader) applyInputs(f *File, nb *nodeBlock) error {
	if nb.Inputs == nil {
		return nil
	}
	attrs, diags := nb.Inputs.Remain.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("node %q inputs: %w", nb.Name, diags)
	}

	id := f.nodes[nb.Name]
	ectx := evalContext()
	for _, name := range sortedAttrNames(attrs) {
		attr := attrs[name]
		in, err := f.Graph.GetInput(id, name)
		if err != nil {
			return fmt.Errorf("%s: %w", attr.Range, err)
		}

		if ref, ok, err := parseNodeRef(attr.Expr); err != nil {
			return fmt.Errorf("%s: %w", attr.Range, err)
		} else if ok {
			if err := l.connect(f, ref, in); err != nil {
				return fmt.Errorf("%s: %w", attr.Range, err)
			}
			continue
		}

		raw, diags := attr.Expr.Value(ectx)
		if diags.HasErrors() {
			return fmt.Errorf("node %q input %q: %w", nb.Name, name, diags)
		}
		param, err := f.Graph.Input(in)
		if err != nil {
			return err
		}
		v, err := value.FromCty(param.Type, raw)
		if err != nil {
			return fmt.Errorf("%s: node %q input %q: %w", attr.Range, nb.Name, name, err)
		}
		if err := f.Graph.SetInputValue(in, v); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) connect(f *File, ref nodeRef, in ident.InputID) error {
	src, err := f.Node(ref.Node)
	if err != nil {
		return err
	}
	out, err := f.Graph.GetOutput(src, ref.Output)
	if err != nil {
		return err
	}
	return f.Graph.AddConnection(out, in)
}
