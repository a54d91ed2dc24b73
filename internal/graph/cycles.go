package graph

import (
	"strings"

	"github.com/vk/nodegraph/internal/ident"
)

// pathBetween searches the data-flow edges for a path from -> ... -> to and
// returns it. A node always reaches itself, which rules out self loops.
func (g *Graph[D]) pathBetween(from, to ident.NodeID) ([]ident.NodeID, bool) {
	visited := make(map[ident.NodeID]bool)

	var visit func(n ident.NodeID, path []ident.NodeID) ([]ident.NodeID, bool)
	visit = func(n ident.NodeID, path []ident.NodeID) ([]ident.NodeID, bool) {
		path = append(path, n)
		if n == to {
			return path, true
		}
		if visited[n] {
			return nil, false
		}
		visited[n] = true

		next, _ := g.Downstream(n)
		for _, d := range next {
			if found, ok := visit(d, path); ok {
				return found, true
			}
		}
		return nil, false
	}

	return visit(from, nil)
}

func formatPath(path []ident.NodeID) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = n.String()
	}
	return strings.Join(parts, " -> ")
}
