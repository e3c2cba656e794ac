/*
Package physical implements the physical mapper of spec §4.7:
translating an enumerate.Candidate (by walking its subquery graph,
annotated with the bound query information internal/bind carries)
into a tree of internal/exec operators bound to result-set slots. The
Candidate's Operators list is not read.

MapperContext assigns each physical operator a monotonically
increasing id, gives each expression's result a DataPos (chunk/vector
indices in the final result-set shape), and remembers which expression
names have already been computed so a shared subexpression is read
once rather than recomputed — the three responsibilities spec §4.7
names explicitly.
*/
package physical
