package hclgraph

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// nodeRef is a parsed `node.<name>.<output>` traversal.
type nodeRef struct {
	Node   string
	Output string
}

// parseNodeRef reports whether expr is exactly a node output reference.
// Expressions that mention nodes in any other way are rejected, since a
// constant cannot depend on the graph.
func parseNodeRef(expr hcl.Expression) (nodeRef, bool, error) {
	mentions := false
	for _, tr := range expr.Variables() {
		if tr.RootName() == "node" {
			mentions = true
		}
	}
	if !mentions {
		return nodeRef{}, false, nil
	}

	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return nodeRef{}, false, fmt.Errorf("%w: node outputs can only be referenced directly", ErrBadReference)
	}
	if len(traversal) != 3 {
		return nodeRef{}, false, fmt.Errorf("%w: expected node.<name>.<output>, got %s", ErrBadReference, formatTraversal(traversal))
	}
	name, nameOk := traversal[1].(hcl.TraverseAttr)
	output, outputOk := traversal[2].(hcl.TraverseAttr)
	if !nameOk || !outputOk {
		return nodeRef{}, false, fmt.Errorf("%w: expected node.<name>.<output>, got %s", ErrBadReference, formatTraversal(traversal))
	}
	return nodeRef{Node: name.Name, Output: output.Name}, true, nil
}

func formatTraversal(t hcl.Traversal) string {
	s := t.RootName()
	for _, step := range t[1:] {
		switch st := step.(type) {
		case hcl.TraverseAttr:
			s += "." + st.Name
		case hcl.TraverseIndex:
			s += "[...]"
		}
	}
	return s
}

// sortedAttrNames gives a stable application order; JustAttributes returns a
// map.
func sortedAttrNames(attrs hcl.Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
