package commands

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/layout"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/selection"
	"github.com/cezm/cezm/internal/world"
)

// ToggleViewport flips w.Viewport and retargets the cursor that belongs
// to the viewport being left onto the one being entered, grounded on the
// original's VIEWPORT_EDITOR<->VIEWPORT_DISPLAY toggle: editor->display
// scans task_displays for the editor cursor's task (defaulting to the
// first display record if no match), and display->editor repositions the
// editor cursor to the first line owning the display cursor's task.
func ToggleViewport(w *world.World, lay *layout.Layout) {
	switch w.Viewport {
	case world.ViewportEditor:
		w.Viewport = world.ViewportDisplay
		idx, ok := selection.RetargetDisplayCursor(w, lay)
		if !ok && len(lay.Tasks) > 0 {
			idx, ok = 0, true
		}
		if ok {
			w.DisplayCursorTask = lay.Tasks[idx].Task
			w.DisplayCursorUser = lay.Tasks[idx].User
		}

	case world.ViewportDisplay:
		w.Viewport = world.ViewportEditor
		if idx, ok := findDisplayIndex(lay, w.DisplayCursorTask, w.DisplayCursorUser); ok {
			selection.RetargetEditorCursor(w, lay, idx)
		}
	}
}

// ToggleSelectionOnCursorTask flips ModeEdit on the task under the
// display cursor and syncs the propagation (spec.md §6
// toggle-selection-on-cursor-task).
func ToggleSelectionOnCursorTask(w *world.World) {
	t := w.Tasks.At(w.DisplayCursorTask)
	if t == nil {
		return
	}
	t.ModeEdit = !t.ModeEdit
	SyncDisplaySelection(w)
}

// SelectPrereqsOneHop marks every direct prereq of a currently edit-mode
// task as edit-mode, mirroring keybind_display_select_prereq_one's
// snapshot-then-mark-prereqs pass.
func SelectPrereqsOneHop(w *world.World) {
	seeds := snapshotEditMode(w)
	for _, h := range seeds {
		t := w.Tasks.At(h)
		if t == nil {
			continue
		}
		for _, p := range t.Prereqs {
			if pt := w.Tasks.At(p); pt != nil {
				pt.ModeEdit = true
			}
		}
	}
	SyncDisplaySelection(w)
}

// SelectDependentsOneHop marks every direct dependent of a currently
// edit-mode task as edit-mode, mirroring
// keybind_display_select_dependent_one.
func SelectDependentsOneHop(w *world.World) {
	seeds := snapshotEditMode(w)
	for _, h := range seeds {
		t := w.Tasks.At(h)
		if t == nil {
			continue
		}
		for _, d := range t.Dependents {
			if dt := w.Tasks.At(d); dt != nil {
				dt.ModeEdit = true
			}
		}
	}
	SyncDisplaySelection(w)
}

// DeselectAll clears ModeEdit on every live task, mirroring
// keybind_display_select_none.
func DeselectAll(w *world.World) {
	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		t.ModeEdit = false
	})
	SyncDisplaySelection(w)
}

func snapshotEditMode(w *world.World) []arena.Handle {
	var seeds []arena.Handle
	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if t.ModeEdit {
			seeds = append(seeds, h)
		}
	})
	return seeds
}

func findDisplayIndex(lay *layout.Layout, taskH, userH arena.Handle) (int, bool) {
	for i, td := range lay.Tasks {
		if td.Task == taskH && td.User == userH {
			return i, true
		}
	}
	for i, td := range lay.Tasks {
		if td.Task == taskH {
			return i, true
		}
	}
	return 0, false
}

// NavigateUp moves the display cursor to the user's task with the latest
// DayEnd still earlier than the current task's DayStart — the adjacent
// earlier task in the same column. Reports false if nothing is upward of
// the current selection, or if the display cursor has no selection yet
// and lay is empty. Mirrors keybind_display_cursor_up.
func NavigateUp(w *world.World, lay *layout.Layout) bool {
	if ok := ensureDisplayCursor(w, lay); !ok {
		return false
	}
	task := w.Tasks.At(w.DisplayCursorTask)
	user := w.Users.At(w.DisplayCursorUser)
	if task == nil || user == nil {
		return false
	}

	var best arena.Handle = arena.Invalid
	var bestEnd int64
	for _, th := range user.Tasks {
		cand := w.Tasks.At(th)
		if cand == nil || cand.DayEnd >= task.DayStart {
			continue
		}
		if best == arena.Invalid || cand.DayEnd > bestEnd {
			best, bestEnd = th, cand.DayEnd
		}
	}
	if best == arena.Invalid {
		return false
	}
	retargetDisplayCursorTask(w, lay, task, best, w.DisplayCursorUser)
	return true
}

// NavigateDown is NavigateUp's mirror: the user's task with the earliest
// DayStart still later than the current task's DayEnd. Mirrors
// keybind_display_cursor_down.
func NavigateDown(w *world.World, lay *layout.Layout) bool {
	if ok := ensureDisplayCursor(w, lay); !ok {
		return false
	}
	task := w.Tasks.At(w.DisplayCursorTask)
	user := w.Users.At(w.DisplayCursorUser)
	if task == nil || user == nil {
		return false
	}

	var best arena.Handle = arena.Invalid
	var bestStart int64
	for _, th := range user.Tasks {
		cand := w.Tasks.At(th)
		if cand == nil || cand.DayStart <= task.DayEnd {
			continue
		}
		if best == arena.Invalid || cand.DayStart < bestStart {
			best, bestStart = th, cand.DayStart
		}
	}
	if best == arena.Invalid {
		return false
	}
	retargetDisplayCursorTask(w, lay, task, best, w.DisplayCursorUser)
	return true
}

// NavigateLeft moves the display cursor one column left, landing on the
// task in that column whose midpoint date is closest to the current
// task's midpoint. Reports false at the leftmost column or if the left
// column has no tasks. Mirrors keybind_display_cursor_left.
func NavigateLeft(w *world.World, lay *layout.Layout) bool {
	return navigateColumn(w, lay, -1)
}

// NavigateRight is NavigateLeft's mirror. Mirrors
// keybind_display_cursor_right.
func NavigateRight(w *world.World, lay *layout.Layout) bool {
	return navigateColumn(w, lay, 1)
}

func navigateColumn(w *world.World, lay *layout.Layout, delta int) bool {
	if ok := ensureDisplayCursor(w, lay); !ok {
		return false
	}
	task := w.Tasks.At(w.DisplayCursorTask)
	user := w.Users.At(w.DisplayCursorUser)
	if task == nil || user == nil {
		return false
	}
	mid := (task.DayStart + task.DayEnd) / 2

	newColumn := user.ColumnIndex + delta
	if newColumn < 0 {
		return false
	}

	var newUserH arena.Handle = arena.Invalid
	w.Users.ForEachLive(func(h arena.Handle, u *model.User) {
		if u.ColumnIndex == newColumn {
			newUserH = h
		}
	})
	if newUserH == arena.Invalid {
		return false
	}
	newUser := w.Users.At(newUserH)

	var best arena.Handle = arena.Invalid
	var bestErr int64
	for _, th := range newUser.Tasks {
		cand := w.Tasks.At(th)
		if cand == nil {
			continue
		}
		mid2 := (cand.DayStart + cand.DayEnd) / 2
		diff := mid2 - mid
		if diff < 0 {
			diff = -diff
		}
		if best == arena.Invalid || diff < bestErr {
			best, bestErr = th, diff
		}
	}
	if best == arena.Invalid {
		return false
	}
	retargetDisplayCursorTask(w, lay, task, best, newUserH)
	return true
}

func ensureDisplayCursor(w *world.World, lay *layout.Layout) bool {
	if w.Tasks.Valid(w.DisplayCursorTask) {
		return true
	}
	if len(lay.Tasks) == 0 {
		return false
	}
	w.DisplayCursorTask = lay.Tasks[0].Task
	w.DisplayCursorUser = lay.Tasks[0].User
	return true
}

func retargetDisplayCursorTask(w *world.World, lay *layout.Layout, from *model.Task, to arena.Handle, toUser arena.Handle) {
	from.ModeEditTemp = false
	if t := w.Tasks.At(to); t != nil {
		t.ModeEditTemp = true
	}
	w.DisplayCursorTask = to
	w.DisplayCursorUser = toUser
}
