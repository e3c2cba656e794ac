package dberr

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way the client-facing envelope (see
// pkg/session) needs to distinguish compile-time failures from
// runtime failures from infrastructure failures.
type Kind string

const (
	KindParseError            Kind = "ParseError"
	KindBindError             Kind = "BindError"
	KindPlanError             Kind = "PlanError"
	KindRuntimeError          Kind = "RuntimeError"
	KindIOError               Kind = "IOError"
	KindTransactionError      Kind = "TransactionError"
	KindUnsupportedExpression Kind = "UnsupportedExpression"
)

// Error is the single error type produced anywhere in the stack. It
// carries a Kind so callers can branch on error class with errors.As
// instead of inspecting message text.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs a Kind-tagged error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving it as the cause
// so errors.Is/errors.As still see through to the original failure.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and
// ok=false otherwise — used by the connection API to fill errMsg
// without forcing every caller to type-assert.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// BufferExhausted and IOError are the two failure modes named
// explicitly by the buffer manager contract (spec §4.1).
var (
	ErrBufferExhausted = New(KindIOError, "buffer pool exhausted")
)
