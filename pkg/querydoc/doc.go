/*
Package querydoc decodes a caller-supplied YAML query document into
the internal/bind shape the plan enumerator consumes.

Parsing and binding a real declarative query language (MATCH/WHERE/
RETURN surface syntax) is explicitly out of scope for this engine —
internal/bind only defines the shape a binder would produce. A
`graphdb query`/`graphdb explain` caller, or a gRPC QueryService
client, still needs some way to hand the engine a statement without
writing Go, so this package defines the minimal YAML encoding of a
BoundQuery a human can write by hand, the same way the teacher's
`cmd/warren/apply.go` lets an operator hand-write a YAML
WarrenResource instead of calling the Go API directly.

This is not a query-language parser: there is no lexer, no grammar,
no precedence climbing. It is a structural decode of a tree that
already matches internal/bind's shape one-for-one.
*/
package querydoc
