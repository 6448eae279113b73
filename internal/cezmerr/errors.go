// Package cezmerr defines the failure taxonomy shared by the parser, scheduler
// and arenas: domain misuse is returned as a tagged error, never panics;
// structural bugs (arena symmetry violations) panic with a stack trace.
package cezmerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags a domain-level failure so callers can branch on category without
// string matching.
type Kind int

const (
	// ParseWarning: unknown property or unparseable date component. Logged,
	// record otherwise left intact.
	ParseWarning Kind = iota
	// LookupMiss: a prereq or user reference did not resolve. Silently
	// skipped by the parser.
	LookupMiss
	// CapacityExceeded: a fixed-capacity bag (users, prereqs, display-tasks)
	// is full.
	CapacityExceeded
	// ScheduleUnsatisfiable: no feasible schedule was found within bounds.
	ScheduleUnsatisfiable
	// IOMissingFile: the schedule file did not exist; not an error, the
	// caller creates it empty.
	IOMissingFile
)

func (k Kind) String() string {
	switch k {
	case ParseWarning:
		return "parse-warning"
	case LookupMiss:
		return "lookup-miss"
	case CapacityExceeded:
		return "capacity-exceeded"
	case ScheduleUnsatisfiable:
		return "schedule-unsatisfiable"
	case IOMissingFile:
		return "io-missing-file"
	default:
		return "unknown"
	}
}

// Domain is a tagged, non-fatal failure. Parsing and scheduling never raise
// these up the stack; they record them on the output structures for the
// driver to read once per cycle.
type Domain struct {
	Kind    Kind
	Message string
}

func (e *Domain) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a Domain error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Domain {
	return &Domain{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a *Domain of the given kind.
func IsKind(err error, kind Kind) bool {
	d, ok := err.(*Domain)
	return ok && d.Kind == kind
}

// Structural panics with a stack trace attached. Reserved for symmetry
// violations in the arenas (a user not found on the task it claims, a
// dependents index out of sync with prereqs) — conditions that mean the
// reconciler itself has a bug, not that the user typed something unexpected.
func Structural(format string, args ...interface{}) {
	panic(errors.Wrap(fmt.Errorf(format, args...), "structural invariant violated"))
}
