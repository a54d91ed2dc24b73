package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/hclgraph"
	"github.com/vk/nodegraph/internal/templates"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *templates.Registry
	loader   *hclgraph.Loader

	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	httpServer     *http.Server
}

// NewApp builds an App writing results to outW and logs and spans to logW.
// With no modules given, the built-in templates are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...templates.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = []templates.Module{templates.Builtin{}}
	}
	reg := templates.New(modules...)
	logger.Debug("Templates registered.", "count", len(reg.All()))

	tracer, provider, err := newTracer(cfg.Trace, logW)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:           outW,
		logger:         logger,
		config:         cfg,
		registry:       reg,
		loader:         hclgraph.NewLoader(reg),
		tracer:         tracer,
		tracerProvider: provider,
	}, nil
}

// Registry returns the application's template registry.
func (a *App) Registry() *templates.Registry {
	return a.registry
}

// Close stops background servers and flushes spans.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.closeHealthcheckServer(ctx),
		shutdownTracer(ctx, a.tracerProvider),
	)
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Templates prints the available templates grouped by category.
func (a *App) Templates() error {
	if err := renderTemplates(a.outW, a.config.Output, a.registry); err != nil {
		return fmt.Errorf("rendering templates: %w", err)
	}
	return nil
}
