package app

import (
	"context"
	"fmt"

	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/editorlink"
	"github.com/vk/nodegraph/internal/session"
)

// ServeRequest configures an editor session.
type ServeRequest struct {
	Editor editorlink.Config
	// GraphPath optionally seeds the session from a graph file.
	GraphPath string
}

// NewSession creates an editing session, seeded from path when it is set.
func (a *App) NewSession(ctx context.Context, path string) (*session.Session, error) {
	ctx = a.context(ctx)
	opts := []session.Option{
		session.WithLogger(ctxlog.FromContext(ctx)),
		session.WithCacheExpiration(a.config.CacheExpiration),
	}
	if path != "" {
		f, err := a.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithGraph(f.Graph))
	}
	return session.New(a.registry, opts...), nil
}

// Serve runs an editor link until ctx is done.
func (a *App) Serve(ctx context.Context, req ServeRequest) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	s, err := a.NewSession(ctx, req.GraphPath)
	if err != nil {
		return err
	}
	logger.Info("🚀 Editor session started.", "session", s.ID().String(), "editor", req.Editor.URL)

	a.startHealthcheckServer()
	defer func() { _ = a.closeHealthcheckServer(context.WithoutCancel(ctx)) }()

	if err := editorlink.New(req.Editor, s).Run(ctx); err != nil {
		return fmt.Errorf("editor link: %w", err)
	}
	logger.Info("🏁 Editor session finished.", "session", s.ID().String())
	return nil
}
