// Package lcierrors defines the typed error kinds the core raises: a
// Kind plus an operation label, optional path, optional wrapped cause,
// and a timestamp.
package lcierrors

import (
	"fmt"
	"time"
)

// Kind identifies the class of failure.
type Kind string

const (
	InvalidPath      Kind = "invalid_path"
	PathTraversal    Kind = "path_traversal"
	FileNotFound     Kind = "file_not_found"
	ReadError        Kind = "read_error"
	UnknownRepo      Kind = "unknown_repo"
	AmbiguousRepo    Kind = "ambiguous_repo"
	InvalidQuery     Kind = "invalid_query"
	InvalidPattern   Kind = "invalid_pattern"
	InvalidScanRoot  Kind = "invalid_scan_root"
	budgetExceededAK Kind = "budget_exceeded_after_demotion" // internal, never surfaced
)

// Error is the core's single error type: a Kind, an operation label, an
// optional path, an optional wrapped cause, and a timestamp.
type Error struct {
	Kind       Kind
	Op         string
	Path       string
	Underlying error
	At         time.Time
}

func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op, At: time.Now()}
}

func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Underlying = err
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Underlying }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	le, ok := err.(*Error)
	return ok && le.Kind == k
}

// BudgetExceededAfterDemotion builds the internal-only safety-valve error
// kind. The allocator never constructs it: its phase 5 demotes files to
// tier 4 instead of returning an error, so the kind never reaches a caller.
func BudgetExceededAfterDemotion(op string) *Error {
	return New(budgetExceededAK, op)
}
