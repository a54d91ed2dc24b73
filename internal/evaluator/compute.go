package evaluator

import (
	"fmt"

	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func (p *pass) compute(n graph.Node[templates.NodeData]) (value.Value, error) {
	switch n.UserData.Template {
	case templates.MakeScalar:
		v, err := p.scalar(n, "value")
		if err != nil {
			return value.Value{}, err
		}
		return p.populate(n, "out", value.NewScalar(v))

	case templates.AddScalar, templates.SubtractScalar:
		a, err := p.scalar(n, "A")
		if err != nil {
			return value.Value{}, err
		}
		b, err := p.scalar(n, "B")
		if err != nil {
			return value.Value{}, err
		}
		if n.UserData.Template == templates.SubtractScalar {
			return p.populate(n, "out", value.NewScalar(a-b))
		}
		return p.populate(n, "out", value.NewScalar(a+b))

	case templates.MakeVector:
		x, err := p.scalar(n, "x")
		if err != nil {
			return value.Value{}, err
		}
		y, err := p.scalar(n, "y")
		if err != nil {
			return value.Value{}, err
		}
		return p.populate(n, "out", value.NewVector(x, y))

	case templates.AddVector, templates.SubtractVector:
		v1, err := p.vector(n, "v1")
		if err != nil {
			return value.Value{}, err
		}
		v2, err := p.vector(n, "v2")
		if err != nil {
			return value.Value{}, err
		}
		if n.UserData.Template == templates.SubtractVector {
			return p.populate(n, "out", value.NewVec2(v1.Sub(v2)))
		}
		return p.populate(n, "out", value.NewVec2(v1.Add(v2)))

	case templates.VectorTimesScalar:
		s, err := p.scalar(n, "scalar")
		if err != nil {
			return value.Value{}, err
		}
		v, err := p.vector(n, "vector")
		if err != nil {
			return value.Value{}, err
		}
		return p.populate(n, "out", value.NewVec2(v.Scale(s)))

	case templates.Scaffold:
		return p.populate(n, "widget", value.NewWidget(p.scaffold(n)))

	case templates.Text:
		s, err := p.text(n, "text")
		if err != nil {
			p.logger.Debug("Text input unavailable, using empty text.", "node", n.ID, "error", err)
			s = ""
		}
		return p.populate(n, "widget", value.NewWidget(cty.ObjectVal(map[string]cty.Value{
			"text": cty.StringVal(s),
		})))

	default:
		return value.Value{}, fmt.Errorf("%w: %s has template %d", templates.ErrUnknownTemplate, n.ID, int(n.UserData.Template))
	}
}

// scaffold assembles the scaffold document. Each slot is independent: one
// that fails to resolve is left out.
func (p *pass) scaffold(n graph.Node[templates.NodeData]) cty.Value {
	attrs := make(map[string]cty.Value, 2)
	for _, slot := range []string{"header", "body"} {
		v, err := p.widget(n, slot)
		if err != nil {
			p.logger.Debug("Omitting scaffold slot.", "node", n.ID, "slot", slot, "error", err)
			continue
		}
		doc, _ := v.AsWidget()
		attrs[slot] = doc
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}
