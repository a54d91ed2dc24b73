package graph

import (
	"testing"

	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
	"pgregory.net/rapid"
)

// TestProperty_ConnectionsStayAcyclic drives random edits and checks that the
// store never accepts a cycle and never leaves a dangling handle behind.
func TestProperty_ConnectionsStayAcyclic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := New[testData]()
		build := func(g *Graph[testData], id ident.NodeID) error {
			if _, err := g.AddInputParam(id, "A", value.Scalar, nil, ConnectionOrConstant, true); err != nil {
				return err
			}
			_, err := g.AddOutputParam(id, "out", value.Scalar)
			return err
		}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			nodes := g.Nodes()
			op := rapid.IntRange(0, 2).Draw(t, "op")
			switch {
			case op == 0 || len(nodes) < 2:
				if _, err := g.AddNode("n", testData{}, build); err != nil {
					t.Fatalf("add node: %v", err)
				}
			case op == 1:
				from := rapid.SampledFrom(nodes).Draw(t, "from")
				to := rapid.SampledFrom(nodes).Draw(t, "to")
				out, _ := g.GetOutput(from, "out")
				in, _ := g.GetInput(to, "A")
				_ = g.AddConnection(out, in)
			default:
				victim := rapid.SampledFrom(nodes).Draw(t, "victim")
				if _, err := g.RemoveNode(victim); err != nil {
					t.Fatalf("remove node: %v", err)
				}
			}

			if err := g.detectCycles(); err != nil {
				t.Fatalf("cycle accepted: %v", err)
			}
			for _, c := range g.Connections() {
				if _, err := g.Input(c.Input); err != nil {
					t.Fatalf("dangling input %s", c.Input)
				}
				if _, err := g.Output(c.Output); err != nil {
					t.Fatalf("dangling output %s", c.Output)
				}
			}
		}
	})
}
