package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// setupAppTest creates an app writing to fresh buffers.
func setupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	a, err := NewApp(out, logs, validated)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = a.Close(t.Context())
		if os.Getenv("NODEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func writeGraph(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

const vectorGraph = `
target = "scaled"

node "base" {
  template = "MakeVector"
  inputs {
    x = 1
    y = 2
  }
}

node "scaled" {
  template = "VectorTimesScalar"
  inputs {
    scalar = 3
    vector = node.base.out
  }
}
`

func writeFile(path, src string) error {
	return os.WriteFile(path, []byte(src), 0o600)
}
