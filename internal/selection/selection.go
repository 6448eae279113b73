// Package selection ties the text cursor's resolved entity to the
// display-task list and back, and implements editor-side symbol rename.
// Neither direction is a pub/sub notification: both are plain function
// calls from the loop driver, matching the teacher's preference for
// direct, synchronous wiring over an event bus (SPEC_FULL.md §4.H).
package selection

import (
	"strings"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/layout"
	"github.com/cezm/cezm/internal/serialize"
	"github.com/cezm/cezm/internal/world"
)

// CursorTask returns the task owning the line the primary cursor sits on,
// mirroring editor_cursor_find_task's `text_cursor->task =
// text_buffer->line_task[text_cursor->y[0]]`.
func CursorTask(w *world.World) (arena.Handle, bool) {
	if len(w.Cursor.Positions) == 0 {
		return arena.Invalid, false
	}
	h := w.Buffer.LineTask(w.Cursor.Positions[0].Row)
	if !w.Tasks.Valid(h) {
		return arena.Invalid, false
	}
	return h, true
}

// RetargetDisplayCursor finds the index, within lay.Tasks, of the first
// task-display whose task owns the editor cursor's line (see CursorTask).
// Its only caller is internal/commands.ToggleViewport, on the switch from
// the editor to the display viewport; it is not run on every cycle.
func RetargetDisplayCursor(w *world.World, lay *layout.Layout) (int, bool) {
	taskH, ok := CursorTask(w)
	if !ok {
		return 0, false
	}
	for i, td := range lay.Tasks {
		if td.Task == taskH {
			return i, true
		}
	}
	return 0, false
}

// RetargetEditorCursor collapses the editor cursor to a single position at
// the start of the first line whose line_task equals lay.Tasks[displayIdx]'s
// task. Its only caller is internal/commands.ToggleViewport, on the switch
// from the display back to the editor viewport; display arrow navigation
// does not call it.
func RetargetEditorCursor(w *world.World, lay *layout.Layout, displayIdx int) bool {
	if displayIdx < 0 || displayIdx >= len(lay.Tasks) {
		return false
	}
	target := lay.Tasks[displayIdx].Task

	for row := 0; row < w.Buffer.LineCount(); row++ {
		if w.Buffer.LineTask(row) != target {
			continue
		}
		offset := w.Buffer.LineOffset(row)
		row2, col := cursor.XYFromOffset(w.Buffer, offset)
		w.Cursor.Positions = []cursor.Position{{Offset: offset, Row: row2, Column: col, DesiredColumn: col}}
		return true
	}
	return false
}

// Rename resolves the cursor's entity, marks every task that references it
// edit-mode, regenerates the edit projection of the text, and deploys a
// multi-cursor at every occurrence of the entity's name in the regenerated
// text. Mirrors editor_symbol_rename's three entity-type branches and its
// strstr_n-driven multi-cursor deployment. Reports false if the cursor has
// no resolved entity (TEXTCURSOR_ENTITY_NONE has no rename target).
func Rename(w *world.World) bool {
	name, ok := markReferencingTasks(w)
	if !ok {
		return false
	}

	serialize.Generate(w, serialize.EditProjection)
	deployMultiCursor(w, name)
	return true
}

// markReferencingTasks sets ModeEdit on every task the cursor's resolved
// entity reaches, per spec.md §4.H: a task entity marks itself and its
// dependents; a user entity marks the user's tasks; a prereq-reference
// entity marks the referenced task and its dependents.
func markReferencingTasks(w *world.World) (string, bool) {
	switch w.Cursor.EntityKind {
	case cursor.EntityTask, cursor.EntityPrereq:
		t := w.Tasks.At(w.Cursor.EntityRef)
		if t == nil {
			return "", false
		}
		t.ModeEdit = true
		for _, d := range t.Dependents {
			if dt := w.Tasks.At(d); dt != nil {
				dt.ModeEdit = true
			}
		}
		return t.Name, true

	case cursor.EntityUser:
		u := w.Users.At(w.Cursor.EntityRef)
		if u == nil {
			return "", false
		}
		for _, th := range u.Tasks {
			if t := w.Tasks.At(th); t != nil {
				t.ModeEdit = true
			}
		}
		return u.Name, true

	default:
		return "", false
	}
}

// deployMultiCursor scans the buffer for every non-overlapping occurrence
// of name and places one cursor just past the end of each match, matching
// the original's "add a cursor at the end of each" rule. Falls back to
// Reset when the name no longer appears (e.g. the edit projection is
// empty), matching `if (text_cursor->qty == 0) editor_cursor_reset(...)`.
func deployMultiCursor(w *world.World, name string) {
	if name == "" {
		w.Cursor = cursor.Reset()
		return
	}

	text := w.Buffer.String()
	var positions []cursor.Position
	searchFrom := 0
	for {
		idx := strings.Index(text[searchFrom:], name)
		if idx < 0 {
			break
		}
		offset := searchFrom + idx + len(name)
		row, col := cursor.XYFromOffset(w.Buffer, offset)
		positions = append(positions, cursor.Position{Offset: offset, Row: row, Column: col, DesiredColumn: col})
		searchFrom = offset
	}

	if len(positions) == 0 {
		w.Cursor = cursor.Reset()
		return
	}

	w.Cursor.Positions = positions
	w.Cursor.Sort()
}
