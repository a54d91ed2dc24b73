package editorlink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vk/nodegraph/internal/session"
	"github.com/vk/nodegraph/internal/templates"
)

func TestLink_RejectsBadURL(t *testing.T) {
	l := New(DefaultConfig("not a url"), session.New(templates.New(templates.Builtin{})))
	err := l.Run(context.Background())
	assert.ErrorContains(t, err, "needs a scheme and host")
}

func TestLink_StopsWhenCancelledBeforeConnecting(t *testing.T) {
	cfg := DefaultConfig("http://127.0.0.1:1")
	cfg.ConnectTimeout = time.Minute
	l := New(cfg, session.New(templates.New(templates.Builtin{})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			assert.ErrorContains(t, err, "connecting to editor")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
