package model

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cezmerr"
)

// TaskHandle and UserHandle name which arena a handle belongs to. They are
// aliases of arena.Handle, so the compiler does not stop a task handle from
// being put into a Task's Users bag.
type TaskHandle = arena.Handle
type UserHandle = arena.Handle

// Task is the scheduled unit. Name is immutable for the record's lifetime —
// a rename is modeled as destroy+create, never an in-place field write (see
// internal/parser and internal/selection rename handling).
type Task struct {
	Name string

	Users      []UserHandle // bag, <=TaskUsersMax, insertion-ordered, unique
	Prereqs    []TaskHandle // bag, <=TaskDependenciesMax
	Dependents []TaskHandle // derived inverse of Prereqs; rebuilt every parse

	Constraints Constraint
	DayStart    int64
	DayDuration int64
	DayEnd      int64
	DayNoSooner int64 // valid iff Constraints.Has(NoSooner)

	StatusColor StatusColor
	SubsystemID uint16 // opaque grouping tag, restored from the original Task struct

	ModeEdit     bool // participates in the current editable text projection
	ModeEditTemp bool // transient, display-mode navigation only

	ScheduleDone bool // transient scheduler marker; never serialized
}

// AddUser adds u to the task's user bag if not already present. Returns a
// CapacityExceeded domain error if the bag is full and u is not already a
// member; adding an already-present member is a no-op (bags forbid
// duplicates, so re-adding silently succeeds rather than erroring).
func (t *Task) AddUser(u UserHandle) error {
	for _, existing := range t.Users {
		if existing == u {
			return nil
		}
	}
	if len(t.Users) >= TaskUsersMax {
		return cezmerr.New(cezmerr.CapacityExceeded, "task %q already has %d users (max %d)", t.Name, len(t.Users), TaskUsersMax)
	}
	t.Users = append(t.Users, u)
	return nil
}

// RemoveUser removes u from the task's user bag, if present.
func (t *Task) RemoveUser(u UserHandle) {
	for i, existing := range t.Users {
		if existing == u {
			t.Users = append(t.Users[:i], t.Users[i+1:]...)
			return
		}
	}
}

// HasUser reports whether u is a member of the task's user bag.
func (t *Task) HasUser(u UserHandle) bool {
	for _, existing := range t.Users {
		if existing == u {
			return true
		}
	}
	return false
}

// AddPrereq adds p to the task's prereq bag if not already present.
func (t *Task) AddPrereq(p TaskHandle) error {
	for _, existing := range t.Prereqs {
		if existing == p {
			return nil
		}
	}
	if len(t.Prereqs) >= TaskDependenciesMax {
		return cezmerr.New(cezmerr.CapacityExceeded, "task %q already has %d prereqs (max %d)", t.Name, len(t.Prereqs), TaskDependenciesMax)
	}
	t.Prereqs = append(t.Prereqs, p)
	return nil
}

// ClearPrereqs empties the prereq bag, e.g. before Pass 2 re-parses a task's
// prereq: lines from scratch.
func (t *Task) ClearPrereqs() {
	t.Prereqs = t.Prereqs[:0]
}

// AddDependent adds d to the derived dependents bag if not already present.
// Only internal/parser's dependent-rebuild step calls this; the parser's
// property handlers never write to Dependents (spec.md §3). internal/commands'
// split and successor operations do edit Dependents directly, and the next
// parse's rebuild replaces the bag. Returns a CapacityExceeded domain error if
// the bag is full and d is not already a member, same as AddPrereq — both
// bags share the TaskDependenciesMax cap.
func (t *Task) AddDependent(d TaskHandle) error {
	for _, existing := range t.Dependents {
		if existing == d {
			return nil
		}
	}
	if len(t.Dependents) >= TaskDependenciesMax {
		return cezmerr.New(cezmerr.CapacityExceeded, "task %q already has %d dependents (max %d)", t.Name, len(t.Dependents), TaskDependenciesMax)
	}
	t.Dependents = append(t.Dependents, d)
	return nil
}

// ClearDependents empties the derived dependents bag before a full rebuild.
func (t *Task) ClearDependents() {
	t.Dependents = t.Dependents[:0]
}

// DeriveEnd sets DayEnd from DayStart and DayDuration when both are known,
// keeping the invariant "if HAS_DURATION and any two of start/end present,
// the third is derived consistently".
func (t *Task) DeriveEnd() {
	if t.Constraints.Has(HasDuration) {
		t.DayEnd = t.DayStart + t.DayDuration - 1
	}
}

// DeriveStartFromEnd sets DayStart from DayEnd and DayDuration.
func (t *Task) DeriveStartFromEnd() {
	if t.Constraints.Has(HasDuration) {
		t.DayStart = t.DayEnd - t.DayDuration + 1
	}
}
