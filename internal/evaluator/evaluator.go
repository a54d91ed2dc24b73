// Package evaluator computes node outputs by demand-driven, memoized
// recursion over the connection relation.
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
)

// Cache stores computed output values. The evaluator reads connected inputs
// from it and writes every output it produces.
type Cache interface {
	Get(id ident.OutputID) (value.Value, bool)
	Set(id ident.OutputID, v value.Value)
}

// ComputeHook is called once for every node computation, before the node's
// function runs.
type ComputeHook func(node ident.NodeID, t templates.Template)

// Evaluator holds the options shared by evaluation passes. It keeps no state
// between calls.
type Evaluator struct {
	logger *slog.Logger
	hook   ComputeHook
}

type Option func(*Evaluator)

func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

func WithComputeHook(h ComputeHook) Option {
	return func(e *Evaluator) { e.hook = h }
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes node and returns the value of its primary (first)
// output.
func Evaluate(g *templates.Graph, node ident.NodeID, cache Cache) (value.Value, error) {
	return New().Evaluate(g, node, cache)
}

// EvaluateOutput computes node and returns the value of the named output.
func EvaluateOutput(g *templates.Graph, node ident.NodeID, output string, cache Cache) (value.Value, error) {
	return New().EvaluateOutput(g, node, output, cache)
}

func (e *Evaluator) Evaluate(g *templates.Graph, node ident.NodeID, cache Cache) (value.Value, error) {
	p := e.newPass(g, cache)
	return p.evaluate(node)
}

func (e *Evaluator) EvaluateOutput(g *templates.Graph, node ident.NodeID, output string, cache Cache) (value.Value, error) {
	out, err := g.GetOutput(node, output)
	if err != nil {
		return value.Value{}, err
	}
	p := e.newPass(g, cache)
	if _, err := p.evaluate(node); err != nil {
		return value.Value{}, err
	}
	v, ok := cache.Get(out)
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %s of %s", ErrCacheInvariantViolated, out, node)
	}
	return v, nil
}

// pass is one evaluation call. inProgress marks the nodes on the current
// recursion path.
type pass struct {
	*Evaluator
	g          *templates.Graph
	cache      Cache
	inProgress map[ident.NodeID]bool
}

func (e *Evaluator) newPass(g *templates.Graph, cache Cache) *pass {
	return &pass{Evaluator: e, g: g, cache: cache, inProgress: make(map[ident.NodeID]bool)}
}

func (p *pass) evaluate(id ident.NodeID) (value.Value, error) {
	n, err := p.g.Node(id)
	if err != nil {
		return value.Value{}, err
	}
	if p.inProgress[id] {
		return value.Value{}, fmt.Errorf("%w: %s depends on itself", graph.ErrCycle, id)
	}
	p.inProgress[id] = true
	defer delete(p.inProgress, id)

	t := n.UserData.Template
	p.logger.Debug("Computing node.", "node", id, "template", t)
	if p.hook != nil {
		p.hook(id, t)
	}
	return p.compute(n)
}

// input resolves the named input of n: from the cache or its producer when
// connected, otherwise from the inline constant.
func (p *pass) input(n graph.Node[templates.NodeData], name string) (value.Value, error) {
	id, err := p.g.GetInput(n.ID, name)
	if err != nil {
		return value.Value{}, err
	}
	param, err := p.g.Input(id)
	if err != nil {
		return value.Value{}, err
	}

	if out, ok := p.g.Connection(id); ok && param.Kind.AcceptsConnection() {
		if v, ok := p.cache.Get(out); ok {
			return v, nil
		}
		producer, err := p.g.Output(out)
		if err != nil {
			return value.Value{}, &InputError{Node: n.ID, Input: name, Err: err}
		}
		if _, err := p.evaluate(producer.Node); err != nil {
			return value.Value{}, &InputError{Node: n.ID, Input: name, Err: err}
		}
		v, ok := p.cache.Get(out)
		if !ok {
			return value.Value{}, &InputError{
				Node:  n.ID,
				Input: name,
				Err:   fmt.Errorf("%w: %s of %s", ErrCacheInvariantViolated, out, producer.Node),
			}
		}
		return v, nil
	}

	if !param.Kind.AcceptsConstant() || !param.HasValue {
		return value.Value{}, &InputError{Node: n.ID, Input: name, Err: ErrMissingValue}
	}
	return param.Value, nil
}

func (p *pass) scalar(n graph.Node[templates.NodeData], name string) (float32, error) {
	v, err := p.input(n, name)
	if err != nil {
		return 0, err
	}
	f, err := v.AsScalar()
	if err != nil {
		return 0, &InputError{Node: n.ID, Input: name, Err: err}
	}
	return f, nil
}

func (p *pass) vector(n graph.Node[templates.NodeData], name string) (value.Vec2, error) {
	v, err := p.input(n, name)
	if err != nil {
		return value.Vec2{}, err
	}
	vec, err := v.AsVector()
	if err != nil {
		return value.Vec2{}, &InputError{Node: n.ID, Input: name, Err: err}
	}
	return vec, nil
}

func (p *pass) text(n graph.Node[templates.NodeData], name string) (string, error) {
	v, err := p.input(n, name)
	if err != nil {
		return "", err
	}
	s, err := v.AsText()
	if err != nil {
		return "", &InputError{Node: n.ID, Input: name, Err: err}
	}
	return s, nil
}

func (p *pass) widget(n graph.Node[templates.NodeData], name string) (value.Value, error) {
	v, err := p.input(n, name)
	if err != nil {
		return value.Value{}, err
	}
	if _, err := v.AsWidget(); err != nil {
		return value.Value{}, &InputError{Node: n.ID, Input: name, Err: err}
	}
	return v, nil
}

// populate writes v to the named output of n and returns it.
func (p *pass) populate(n graph.Node[templates.NodeData], name string, v value.Value) (value.Value, error) {
	id, err := p.g.GetOutput(n.ID, name)
	if err != nil {
		return value.Value{}, err
	}
	p.cache.Set(id, v)
	return v, nil
}
