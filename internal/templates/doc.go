// Package templates is the schema layer of the node graph. A Template is one
// of a closed set of node kinds; each declares, once, the ordered typed ports
// it wires onto a fresh node, the labels shown by a node finder, and the
// categories it is grouped under.
//
// The Registry holds the templates offered for node creation. Its order only
// affects presentation.
package templates
