// Package dberr defines the typed error taxonomy surfaced across the
// compilation-and-execution stack: ParseError, BindError, PlanError,
// RuntimeError, IOError, TransactionError, and UnsupportedExpression.
//
// Every error that can reach a client is constructed with New or Wrap
// so that the connection API can classify it without string matching
// or nested type assertions on arbitrary causes.
package dberr
