/*
Package vector implements the value-vector and vectorized-primitive
layer of spec §4.4: a contiguous batch of up to
config.DefaultVectorCapacity values of one logical type, a parallel
null bitmap, and a selection state shared by every vector in the same
data chunk.

A Vector stores its values the same way internal/storage/column
stores a column's slots — a flat byte buffer sized
capacity*Type.ID.FixedWidth(), variable-width types holding a 16-byte
overflow descriptor per slot — so the column layer's on-disk format
and the vector layer's in-memory format agree and a ScanNodeProperty
can memcpy a page's slots straight into a vector's Data.

Every primitive is dispatched by (Kind, operand logical types) and
implemented in up to four shapes: {unary,binary} x {execute,select}.
Combinations the engine does not implement fail with
dberr.KindUnsupportedExpression rather than panicking, per spec §4.4.
*/
package vector
