/*
Package expr implements the expression-evaluator tree of spec §4.5: a
tree mirroring the bound-expression tree, where every node exposes
Evaluate (fills its own result vector from its children) and Select
(only defined when the node's static type is BOOL).

Every evaluator in one expression tree shares the EvalContext's active
selection state — the expression is always evaluated against one
DataChunk at a time, so a leaf SlotEvaluator simply aliases the chunk's
existing vector and a ConstantEvaluator pre-fills every slot of its own
vector with the literal value once, rather than specially broadcasting
a single stored value; that keeps every evaluator, constant or not,
addressable by the same physical slot index vector.ExecuteUnary/
ExecuteBinary already use.
*/
package expr
