// Package hclgraph loads node graphs from HCL files.
//
// A graph file declares nodes by name and wires them through traversals:
//
//	target = "scaled"
//
//	node "base" {
//	  template = "MakeVector"
//	  inputs {
//	    x = 1
//	    y = 2
//	  }
//	}
//
//	node "scaled" {
//	  template = "VectorTimesScalar"
//	  label    = "Scaled base"
//	  inputs {
//	    scalar = 3
//	    vector = node.base.out
//	  }
//	}
//
// An input set to exactly `node.<name>.<output>` becomes a connection. Any
// other expression is evaluated and stored as the input's constant; it may
// use vec(x, y) and a small set of string and number functions, but may not
// refer to other nodes.
package hclgraph
