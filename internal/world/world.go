// Package world wires the arenas, text buffer, and cursor into the single
// struct every other package operates on. Nothing here runs on goroutines;
// the whole model is single-threaded cooperative per spec.md's concurrency
// model, so World carries no locks.
package world

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/textbuf"
)

// Viewport selects which half of the split-view the command surface is
// currently addressing, mirroring the original's VIEWPORT_EDITOR/
// VIEWPORT_DISPLAY enum.
type Viewport int

const (
	ViewportEditor Viewport = iota
	ViewportDisplay
)

// World is the complete in-memory state of one open schedule file.
type World struct {
	Tasks *arena.Pool[model.Task]
	Users *arena.Pool[model.User]

	Buffer *textbuf.Buffer
	Cursor *cursor.Set

	Viewport Viewport

	// DisplayCursorTask/DisplayCursorUser identify the active display-mode
	// selection by handle rather than by task_displays index, since a
	// Layout is recomputed every cycle and indices don't survive that the
	// way handles do. Invalid until the display viewport has been entered
	// at least once.
	DisplayCursorTask model.TaskHandle
	DisplayCursorUser model.UserHandle
}

// New returns a World with empty arenas, an empty buffer, and the cursor at
// the origin.
func New() *World {
	return &World{
		Tasks:             arena.New[model.Task]("tasks", model.InitialTaskCapacity),
		Users:             arena.New[model.User]("users", model.InitialUserCapacity),
		Buffer:            textbuf.New(),
		Cursor:            cursor.Reset(),
		Viewport:          ViewportEditor,
		DisplayCursorTask: arena.Invalid,
		DisplayCursorUser: arena.Invalid,
	}
}

// FromBytes returns a World whose buffer is pre-seeded with content; the
// caller still must run a parse before the arenas reflect it.
func FromBytes(content []byte) *World {
	w := New()
	w.Buffer = textbuf.FromBytes(content)
	return w
}
