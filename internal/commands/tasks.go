package commands

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/serialize"
	"github.com/cezm/cezm/internal/world"
)

// SplitTask duplicates every edit-mode task into two: the new task takes
// half the original's DayDuration (minimum 1) and is sequenced after the
// shrunk original (prereq: base); the original's existing dependents are
// reparented to point at the new task instead, since the new task now
// owns the back half of the work the dependents were actually waiting on.
// A fixed-end constraint moves from the original to the new task, since
// the new task now owns the end of the span. Mirrors
// keybind_display_task_create_split. Regenerates the buffer text from the
// mutated graph; the caller's next parser.Parse reconciles Dependents and
// re-resolves the cursor entity, matching internal/selection.Rename's
// convention of not reparsing inline.
func SplitTask(w *world.World) {
	seeds := snapshotEditMode(w)
	for _, h := range seeds {
		splitOne(w, h)
	}
	serialize.Generate(w, serialize.AllTasks)
}

func splitOne(w *world.World, h arena.Handle) {
	base := w.Tasks.At(h)
	if base == nil {
		return
	}

	newDur := base.DayDuration / 2
	if newDur < 1 {
		newDur = 1
	}
	remDur := base.DayDuration - newDur
	if remDur < 1 {
		remDur = 1
	}

	name := uniqueName(w, base.Name+"_split")
	newH, _ := w.Tasks.Create(name, model.Task{Name: name})
	newT := w.Tasks.At(newH)

	newT.Constraints = base.Constraints
	newT.Users = append([]arena.Handle(nil), base.Users...)
	newT.StatusColor = base.StatusColor
	newT.SubsystemID = base.SubsystemID
	newT.ModeEdit = true
	newT.DayDuration = newDur

	base.DayDuration = remDur
	base.ModeEdit = true

	if base.Constraints.Has(model.HasFixedEnd) {
		newT.DayEnd = base.DayEnd
		base.Constraints &^= model.HasFixedEnd
		base.Constraints |= model.HasDuration
	}

	newT.Prereqs = append(newT.Prereqs, h)

	// Reparent base's existing dependents onto the new task.
	for _, dh := range base.Dependents {
		d := w.Tasks.At(dh)
		if d == nil {
			continue
		}
		for i, p := range d.Prereqs {
			if p == h {
				d.Prereqs[i] = newH
			}
		}
	}
	newT.Dependents = append(newT.Dependents, base.Dependents...)
	base.ClearDependents()
}

// CreateSuccessor duplicates every edit-mode task into a new task that
// copies the original's full DayDuration and depends on it (prereq:
// base), without reparenting any existing dependents. Mirrors
// keybind_display_task_create_successor.
func CreateSuccessor(w *world.World) {
	seeds := snapshotEditMode(w)
	for _, h := range seeds {
		successorOne(w, h)
	}
	serialize.Generate(w, serialize.AllTasks)
}

func successorOne(w *world.World, h arena.Handle) {
	base := w.Tasks.At(h)
	if base == nil {
		return
	}

	name := uniqueName(w, base.Name+"_next")
	newH, _ := w.Tasks.Create(name, model.Task{Name: name})
	newT := w.Tasks.At(newH)

	newT.Constraints = base.Constraints &^ (model.HasFixedStart | model.HasFixedEnd)
	newT.Constraints |= model.HasDuration
	newT.DayDuration = base.DayDuration
	newT.Users = append([]arena.Handle(nil), base.Users...)
	newT.StatusColor = base.StatusColor
	newT.SubsystemID = base.SubsystemID
	newT.ModeEdit = true
	newT.Prereqs = append(newT.Prereqs, h)

	base.ModeEdit = true
	base.Dependents = append(base.Dependents, newH)
}
