package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/outcache"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
	"pgregory.net/rapid"
)

var scalarOps = []templates.Template{templates.AddScalar, templates.SubtractScalar}

// randomScalarGraph builds a layered DAG of scalar nodes. Every node only
// reads from nodes created before it.
func randomScalarGraph(t *rapid.T) (*templates.Graph, []ident.NodeID) {
	g := graph.New[templates.NodeData]()
	var nodes []ident.NodeID

	roots := rapid.IntRange(1, 4).Draw(t, "roots")
	for i := 0; i < roots; i++ {
		id, err := templates.Instantiate(g, templates.MakeScalar)
		require.NoError(t, err)
		in, _ := g.GetInput(id, "value")
		f := float32(rapid.IntRange(-100, 100).Draw(t, "constant"))
		require.NoError(t, g.SetInputValue(in, value.NewScalar(f)))
		nodes = append(nodes, id)
	}

	ops := rapid.IntRange(1, 12).Draw(t, "ops")
	for i := 0; i < ops; i++ {
		tmpl := rapid.SampledFrom(scalarOps).Draw(t, "op")
		id, err := templates.Instantiate(g, tmpl)
		require.NoError(t, err)
		for _, name := range []string{"A", "B"} {
			in, _ := g.GetInput(id, name)
			if rapid.Bool().Draw(t, "connected") {
				src := rapid.SampledFrom(nodes).Draw(t, "source")
				out, _ := g.GetOutput(src, "out")
				require.NoError(t, g.AddConnection(out, in))
				continue
			}
			f := float32(rapid.IntRange(-100, 100).Draw(t, "constant"))
			require.NoError(t, g.SetInputValue(in, value.NewScalar(f)))
		}
		nodes = append(nodes, id)
	}
	return g, nodes
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g, nodes := randomScalarGraph(t)
		target := rapid.SampledFrom(nodes).Draw(t, "target")

		first, err := Evaluate(g, target, outcache.NewMap())
		require.NoError(t, err)
		second, err := Evaluate(g, target, outcache.NewMap())
		require.NoError(t, err)
		require.True(t, first.Equal(second), "%s != %s", first, second)
	})
}

func TestProperty_EachNodeComputedAtMostOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g, nodes := randomScalarGraph(t)
		target := rapid.SampledFrom(nodes).Draw(t, "target")

		counts, hook := counting()
		_, err := New(hook).Evaluate(g, target, outcache.NewMap())
		require.NoError(t, err)

		for id, n := range counts {
			require.Equal(t, 1, n, "%s computed %d times", id, n)
		}
		require.Equal(t, 1, counts[target])
	})
}
