package graph

import (
	"fmt"

	"github.com/vk/nodegraph/internal/ident"
)

// detectCycles checks the whole connection relation for a cycle with a
// three-colour DFS, independently of the per-edge check in AddConnection.
func (g *Graph[D]) detectCycles() error {
	// permanent: fully explored and cycle free.
	// temporary: on the current DFS stack.
	permanent := make(map[ident.NodeID]bool)
	temporary := make(map[ident.NodeID]bool)

	var visit func(n ident.NodeID) error
	visit = func(n ident.NodeID) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			return fmt.Errorf("%w: involving %s", ErrCycle, n)
		}
		temporary[n] = true

		dependents, err := g.Downstream(n)
		if err != nil {
			return err
		}
		for _, d := range dependents {
			if err := visit(d); err != nil {
				return err
			}
		}

		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	for _, n := range g.Nodes() {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}
