// Package editorlink connects a session to an external editor over
// socket.io. The editor reports edits as structured events; the link applies
// them and emits the outcome, including the active node's status line.
package editorlink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/nodegraph/internal/ctxlog"
	"github.com/vk/nodegraph/internal/session"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Config holds the editor connection settings.
type Config struct {
	URL                string
	Namespace          string
	EditEvent          string
	ResultEvent        string
	HelloEvent         string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// DefaultConfig fills in the event names used by the editor.
func DefaultConfig(rawURL string) Config {
	return Config{
		URL:            rawURL,
		Namespace:      "/",
		EditEvent:      "edit",
		ResultEvent:    "result",
		HelloEvent:     "hello",
		ConnectTimeout: 10 * time.Second,
	}
}

// Link is a running editor connection.
type Link struct {
	cfg     Config
	handler *Handler
}

func New(cfg Config, s *session.Session) *Link {
	return &Link{cfg: cfg, handler: NewHandler(s, nil)}
}

// Run connects and serves edit events until ctx is cancelled. It fails if
// the first connection is not established within the connect timeout.
func (l *Link) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink", "url", l.cfg.URL)
	l.handler.logger = logger

	parsedURL, err := url.Parse(l.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("editor URL %q needs a scheme and host", l.cfg.URL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if l.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(l.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting from editor.")
		io.Disconnect()
	}()

	var connected atomic.Bool
	ready := make(chan struct{}, 1)
	failed := make(chan error, 1)

	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Connected to editor.", "namespace", l.cfg.Namespace, "sid", io.Id())
		io.Emit(l.cfg.HelloEvent, l.handler.Hello())
		select {
		case ready <- struct{}{}:
		default:
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Warn("Editor connection failed.", "error", err)
		select {
		case failed <- err:
		default:
		}
	})

	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Info("Disconnected from editor.", "reason", reason)
	})

	io.On(types.EventName(l.cfg.EditEvent), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		reply := l.handler.Handle(payload)
		io.Emit(l.cfg.ResultEvent, reply)
	})

	io.Connect()

	timeout := time.NewTimer(l.cfg.ConnectTimeout)
	defer timeout.Stop()

	select {
	case <-ready:
	case err := <-failed:
		if !connected.Load() {
			return fmt.Errorf("connecting to editor: %w", err)
		}
	case <-timeout.C:
		return fmt.Errorf("timed out while waiting for initial connection")
	case <-ctx.Done():
		return nil
	}

	<-ctx.Done()
	return nil
}
