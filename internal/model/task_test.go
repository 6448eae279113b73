package model

import (
	"testing"

	"github.com/cezm/cezm/internal/cezmerr"
)

func TestAddUserRejectsDuplicatesSilently(t *testing.T) {
	t.Parallel()
	task := &Task{Name: "build"}

	if err := task.AddUser(3); err != nil {
		t.Fatalf("AddUser(3) = %v, want nil", err)
	}
	if err := task.AddUser(3); err != nil {
		t.Errorf("AddUser(3) second time = %v, want nil (re-adding a member is a no-op)", err)
	}
	if len(task.Users) != 1 {
		t.Errorf("Users = %v, want single entry", task.Users)
	}
}

func TestAddUserCapacityExceeded(t *testing.T) {
	t.Parallel()
	task := &Task{Name: "build"}

	for i := 0; i < TaskUsersMax; i++ {
		if err := task.AddUser(intHandle(i)); err != nil {
			t.Fatalf("AddUser(%d) = %v, want nil", i, err)
		}
	}
	if err := task.AddUser(intHandle(TaskUsersMax)); err == nil {
		t.Errorf("AddUser past capacity = nil, want CapacityExceeded")
	} else if !cezmerr.IsKind(err, cezmerr.CapacityExceeded) {
		t.Errorf("AddUser past capacity = %v, want a CapacityExceeded domain error", err)
	}
}

func TestRemoveUser(t *testing.T) {
	t.Parallel()
	task := &Task{}
	task.AddUser(1)
	task.AddUser(2)

	task.RemoveUser(1)

	if task.HasUser(1) {
		t.Errorf("HasUser(1) = true after RemoveUser(1)")
	}
	if !task.HasUser(2) {
		t.Errorf("HasUser(2) = false, want true (untouched)")
	}
}

func TestDeriveEndRequiresHasDuration(t *testing.T) {
	t.Parallel()
	task := &Task{DayStart: 10, DayDuration: 5}
	task.DeriveEnd()
	if task.DayEnd != 0 {
		t.Errorf("DeriveEnd without HasDuration set DayEnd = %d, want 0", task.DayEnd)
	}

	task.Constraints |= HasDuration
	task.DeriveEnd()
	if task.DayEnd != 14 {
		t.Errorf("DeriveEnd() DayEnd = %d, want 14 (10 + 5 - 1)", task.DayEnd)
	}
}

func TestDeriveStartFromEnd(t *testing.T) {
	t.Parallel()
	task := &Task{DayEnd: 14, DayDuration: 5, Constraints: HasDuration}
	task.DeriveStartFromEnd()
	if task.DayStart != 10 {
		t.Errorf("DeriveStartFromEnd() DayStart = %d, want 10", task.DayStart)
	}
}

func TestClearPrereqsAndDependents(t *testing.T) {
	t.Parallel()
	task := &Task{}
	task.AddPrereq(1)
	task.AddPrereq(2)
	task.ClearPrereqs()
	if len(task.Prereqs) != 0 {
		t.Errorf("Prereqs after ClearPrereqs = %v, want empty", task.Prereqs)
	}

	if err := task.AddDependent(5); err != nil {
		t.Fatalf("AddDependent(5) = %v, want nil", err)
	}
	task.ClearDependents()
	if len(task.Dependents) != 0 {
		t.Errorf("Dependents after ClearDependents = %v, want empty", task.Dependents)
	}
}

func TestAddDependentCapacityExceeded(t *testing.T) {
	t.Parallel()
	task := &Task{Name: "design"}

	for i := 0; i < TaskDependenciesMax; i++ {
		if err := task.AddDependent(intHandle(i)); err != nil {
			t.Fatalf("AddDependent(%d) = %v, want nil", i, err)
		}
	}
	if err := task.AddDependent(intHandle(TaskDependenciesMax)); err == nil {
		t.Errorf("AddDependent past capacity = nil, want CapacityExceeded")
	} else if !cezmerr.IsKind(err, cezmerr.CapacityExceeded) {
		t.Errorf("AddDependent past capacity = %v, want a CapacityExceeded domain error", err)
	}

	if err := task.AddDependent(intHandle(0)); err != nil {
		t.Errorf("AddDependent re-adding an existing member at full capacity = %v, want nil", err)
	}
}

func intHandle(i int) TaskHandle { return TaskHandle(i) }
