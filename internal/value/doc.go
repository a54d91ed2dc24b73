// Package value defines the closed set of port data types and the tagged value
// union that flows along connections.
//
// A DataType classifies a port for connection compatibility and presentation;
// it has no behavior. A Value carries the payload matching one DataType. Casts
// are always explicit: asking a Scalar for its Vector payload fails with a
// *TypeMismatchError, it is never coerced.
//
// Widget payloads are structured documents represented as cty values, the same
// value model the graph file loader decodes constants into.
package value
