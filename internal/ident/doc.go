/*
Package ident provides the typed handles used for every cross-reference in a
node graph: NodeID, InputID and OutputID.

Handles are small integers allocated by the graph's arenas. They are never
reused after removal, so a stale handle always resolves to "unknown" instead of
silently aliasing a newer entity.

The canonical string form is `kind[index]`, e.g. `node[3]` or `output[12]`.
*/
package ident
