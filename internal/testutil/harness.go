// Package testutil holds the harness shared by end-to-end tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nodegraph/internal/app"
	"github.com/vk/nodegraph/internal/render"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of one harness run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
	Dir       string
}

// WriteFiles writes files, keyed by relative path, under a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// NewApp builds an app logging at debug level into the returned buffers.
func NewApp(t *testing.T, format render.Format) (*app.App, *SafeBuffer, *SafeBuffer) {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{LogLevel: "debug", LogFormat: "text", Output: format})
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	a, err := app.NewApp(out, logs, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = a.Close(context.Background())
		if os.Getenv("NODEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

// RunEval writes files and evaluates the graph file named main.hcl.
func RunEval(t *testing.T, files map[string]string, format render.Format, target, port string) *HarnessResult {
	t.Helper()
	dir := WriteFiles(t, files)
	a, out, logs := NewApp(t, format)

	err := a.Eval(context.Background(), app.EvalRequest{
		Path:   filepath.Join(dir, "main.hcl"),
		Target: target,
		Port:   port,
	})
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       err,
		App:       a,
		Dir:       dir,
	}
}
