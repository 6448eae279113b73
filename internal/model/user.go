package model

import "github.com/cezm/cezm/internal/cezmerr"

// User is a schedulable resource. Name is immutable; see Task for the same
// rename-as-destroy-create convention.
type User struct {
	Name string

	Tasks []TaskHandle // bag, <=UserTasksMax, insertion-ordered, unique

	ColumnIndex    int // display layout column, assigned left-to-right by first appearance
	ColumnCenterPx int // derived pixel center of the user's column; layout-owned

	ModeEdit bool
}

// AddTask adds t to the user's task bag if not already present.
func (u *User) AddTask(t TaskHandle) error {
	for _, existing := range u.Tasks {
		if existing == t {
			return nil
		}
	}
	if len(u.Tasks) >= UserTasksMax {
		return cezmerr.New(cezmerr.CapacityExceeded, "user %q already has %d tasks (max %d)", u.Name, len(u.Tasks), UserTasksMax)
	}
	u.Tasks = append(u.Tasks, t)
	return nil
}

// RemoveTask removes t from the user's task bag, if present.
func (u *User) RemoveTask(t TaskHandle) {
	for i, existing := range u.Tasks {
		if existing == t {
			u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
			return
		}
	}
}

// HasTask reports whether t is a member of the user's task bag.
func (u *User) HasTask(t TaskHandle) bool {
	for _, existing := range u.Tasks {
		if existing == t {
			return true
		}
	}
	return false
}
