// Package commands implements the command surface spec.md §4.D/§4.G/§6
// names: the operations an external keybinding layer (out of scope per
// §1 — "keyboard binding tables... are implementation details of a
// concrete front end, not the planning model") invokes against an open
// World. Sublation's own command surface is a set of exported methods on
// Engine; that shape doesn't transplant directly here because two of this
// package's own dependencies, internal/layout and internal/selection,
// already import internal/world, and Go forbids the reverse import a
// World-method package would need. Functions here take *world.World (and
// *layout.Layout where a command needs display geometry) as their first
// argument instead, playing the same role — a driver's single dispatch
// surface — without the cycle. See DESIGN.md for the fuller note.
package commands

import (
	"fmt"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/selection"
	"github.com/cezm/cezm/internal/serialize"
	"github.com/cezm/cezm/internal/world"
)

// InsertText splices content at every active cursor position (spec.md
// §4.D character-insert and return; Return is InsertText(w, "\n")).
func InsertText(w *world.World, content string) {
	w.Cursor.InsertAll(w.Buffer, []byte(content))
}

// Backspace deletes one byte before every active cursor position.
func Backspace(w *world.World) {
	w.Cursor.DeleteBackward(w.Buffer, 1)
}

// DeleteForward deletes one byte at every active cursor position.
func DeleteForward(w *world.World) {
	w.Cursor.DeleteForward(w.Buffer, 1)
}

// MoveCursor applies dir to every active cursor position in lockstep,
// matching the original's multi-cursor arrow-key behavior (a rename's
// deployed cursors all type and navigate together until deselected).
func MoveCursor(w *world.World, dir cursor.Direction) {
	w.Cursor.MoveAll(w.Buffer, dir)
}

// DeselectMultiCursor collapses the cursor set back down to a single
// cursor at the primary position, discarding every position a rename's
// multi-cursor deployment added.
func DeselectMultiCursor(w *world.World) {
	if len(w.Cursor.Positions) > 1 {
		w.Cursor.Positions = w.Cursor.Positions[:1]
	}
}

// RenameSymbol resolves the cursor's entity and deploys a multi-cursor
// rename, delegating to internal/selection.Rename.
func RenameSymbol(w *world.World) bool {
	return selection.Rename(w)
}

// SyncDisplaySelection propagates task-level ModeEdit onto the owning
// users, regenerates the editor's edit-mode text projection, and
// refreshes the text cursor's (row, column) from its offset. Mirrors the
// original's `if (display_selection_changed == TRUE)` block, run once
// after any command that can change which tasks are in edit mode.
func SyncDisplaySelection(w *world.World) {
	w.Users.ForEachLive(func(_ arena.Handle, u *model.User) {
		u.ModeEdit = false
	})
	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		if !t.ModeEdit {
			return
		}
		for _, uh := range t.Users {
			if u := w.Users.At(uh); u != nil {
				u.ModeEdit = true
			}
		}
	})

	serialize.Generate(w, serialize.EditProjection)
	w.Cursor.RefreshXY(w.Buffer)
}

// uniqueName appends an incrementing numeric suffix to base until the
// result names no existing task, mirroring the role of the original's
// task_name_generate without reusing its exact scheme (the original
// generates from a counter private to task_memory; this package has only
// the arena's name index to consult).
func uniqueName(w *world.World, base string) string {
	if _, taken := w.Tasks.Get(base); !taken {
		return base
	}
	for suffix := 2; ; suffix++ {
		candidate := fmt.Sprintf("%s%d", base, suffix)
		if _, taken := w.Tasks.Get(candidate); !taken {
			return candidate
		}
	}
}
