package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/evaluator"
	"github.com/vk/nodegraph/internal/hclgraph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/outcache"
	"github.com/vk/nodegraph/internal/render"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrEvaluationFailed is returned when the target could not be computed. The
// failure itself has already been rendered.
var ErrEvaluationFailed = errors.New("evaluation failed")

// EvalRequest selects what to evaluate in a graph file.
type EvalRequest struct {
	Path string
	// Target is the node name. Empty means the file's target, or else the
	// last declared node.
	Target string
	// Port is the output name. Empty means the node's primary output.
	Port string
}

// Eval loads a graph file, evaluates the requested node and renders the
// result.
func (a *App) Eval(ctx context.Context, req EvalRequest) error {
	ctx = ctxlog.With(a.context(ctx), "file", req.Path)
	f, err := a.loader.Load(ctx, req.Path)
	if err != nil {
		return err
	}
	name, id, err := pickTarget(f, req.Target)
	if err != nil {
		return err
	}
	ctx = ctxlog.With(ctx, "target", name)
	ctxlog.FromContext(ctx).Debug("Evaluating target.", "node", id)

	v, err := a.evaluate(ctx, f, id, req.Port)

	result := render.Result{Node: name, Output: req.Port, Value: v, Err: err}
	if n, nerr := f.Graph.Node(id); nerr == nil {
		result.Label = n.Label
	}
	if rerr := render.Write(a.outW, a.config.Output, result); rerr != nil {
		return fmt.Errorf("rendering result: %w", rerr)
	}
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEvaluationFailed, name)
	}
	return nil
}

func pickTarget(f *hclgraph.File, requested string) (string, ident.NodeID, error) {
	name := requested
	if name == "" {
		name = f.Target
	}
	if name == "" {
		if len(f.Names) == 0 {
			return "", 0, errors.New("graph file declares no nodes")
		}
		name = f.Names[len(f.Names)-1]
	}
	id, err := f.Node(name)
	if err != nil {
		return "", 0, err
	}
	return name, id, nil
}

// evaluate runs one traced evaluation pass with a fresh cache.
func (a *App) evaluate(ctx context.Context, f *hclgraph.File, id ident.NodeID, port string) (value.Value, error) {
	name, _ := f.Name(id)
	ctx, span := a.tracer.Start(ctx, "evaluate", trace.WithAttributes(
		attribute.String("graph.target", name),
		attribute.String("graph.node", id.String()),
	))
	defer span.End()

	computed := 0
	ev := evaluator.New(
		evaluator.WithLogger(ctxlog.FromContext(ctx)),
		evaluator.WithComputeHook(func(n ident.NodeID, t templates.Template) {
			computed++
			nodeName, _ := f.Name(n)
			span.AddEvent("compute", trace.WithAttributes(
				attribute.String("node", n.String()),
				attribute.String("node.name", nodeName),
				attribute.String("template", t.Name()),
			))
		}),
	)

	var v value.Value
	var err error
	if port == "" {
		v, err = ev.Evaluate(f.Graph, id, outcache.NewMap())
	} else {
		v, err = ev.EvaluateOutput(f.Graph, id, port, outcache.NewMap())
	}
	span.SetAttributes(attribute.Int("graph.computed", computed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return value.Value{}, err
	}
	span.SetAttributes(attribute.String("result.type", v.Type().Name()))
	return v, nil
}

func renderTemplates(w io.Writer, f render.Format, reg *templates.Registry) error {
	return render.WriteTemplates(w, f, reg.Categories())
}
