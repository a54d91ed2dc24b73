package app

import (
	"context"
	"errors"

	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/watcher"
)

// Watch evaluates req, then again each time the file changes, until ctx is
// done. Failures of individual runs are logged and do not stop the watch.
func (a *App) Watch(ctx context.Context, req EvalRequest) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx).With("file", req.Path)

	w, err := watcher.New(watcher.Config{Path: req.Path, Debounce: a.config.WatchDebounce, Logger: logger})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	logger.Info("👀 Watching graph file for changes.")

	a.runOnce(ctx, req)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil
		case <-changes:
			logger.Info("Graph file changed, re-evaluating.")
			a.runOnce(ctx, req)
		}
	}
}

func (a *App) runOnce(ctx context.Context, req EvalRequest) {
	if err := a.Eval(ctx, req); err != nil && !errors.Is(err, ErrEvaluationFailed) {
		ctxlog.FromContext(ctx).Error("Evaluation run failed.", "error", err)
	}
}
