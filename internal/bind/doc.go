// Package bind defines the shape of a bound query: the typed boundary
// between a (hypothetical, out-of-scope) parser/binder and the plan
// enumerator. Parsing and binding text into these structs is not part
// of this module — a small hand-built constructor stands in for the
// binder in tests, the way a fixture stands in for a live dependency.
package bind
