package ident

// NodeID identifies a node in a graph.
type NodeID uint32

// InputID identifies an input parameter. It always belongs to exactly one node.
type InputID uint32

// OutputID identifies an output parameter. It always belongs to exactly one node.
type OutputID uint32
