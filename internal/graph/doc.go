// Package graph is the store behind a node graph: it owns every node, every
// input and output parameter, and the connection relation between them.
//
// # Identity
//
// Nodes and parameters never hold pointers to each other. A node lists the
// handles of its parameters, a parameter names its owning node by handle, and
// connections map an InputID to the OutputID feeding it. All handles come from
// per-kind arenas (see internal/arena) and are never reused, so a handle that
// survives a removal resolves to ErrUnknownIdentifier instead of aliasing.
//
// # Connections
//
// The connection relation is a function from inputs to outputs: each input has
// at most one upstream output, while an output may fan out to any number of
// inputs. AddConnection replaces an existing connection rather than adding a
// second one. It also rejects edges that would close a cycle, because the
// evaluator resolves dependencies by plain recursion.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Callers finish editing before they
// evaluate and serialize access themselves when edits arrive from several
// goroutines.
package graph
