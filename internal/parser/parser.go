// Package parser implements the two-pass line-oriented text→graph
// reconciler: Pass 1 detects task blocks and creates/fetches their arena
// records; Pass 2 dispatches each property line, resolves the cursor's
// entity, and closes tasks. A post-pass sweep destroys unvisited records
// and rebuilds the derived dependents index.
package parser

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/world"
)

// Parse reconciles w.Tasks and w.Users against the current contents of
// w.Buffer, and re-resolves w.Cursor's entity. It must run to completion
// before the scheduler sees the arenas — spec.md's concurrency model
// forbids re-entrant parsing mid-cycle.
func Parse(w *world.World) {
	w.Tasks.ResetVisited()
	w.Users.ResetVisited()
	w.Cursor.SetEntity(cursor.EntityNone, arena.Invalid)

	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if t.ModeEdit {
			t.ClearPrereqs()
			t.Constraints = 0
		}
	})

	detectTasks(w)
	resolveProperties(w)
	sweep(w)
	rebuildDependents(w)
}

// detectTasks is Pass 1: every line containing '{' yields a stripped name
// and creates-or-fetches a task, marking it visited. No other state is
// touched.
func detectTasks(w *world.World) {
	seenThisParse := make(map[string]bool)

	for i := 0; i < w.Buffer.LineCount(); i++ {
		line := stripNewline(w.Buffer.LineText(i))
		if !strings.Contains(line, "{") {
			continue
		}
		name, ok := strip(line[:strings.IndexByte(line, '{')])
		if !ok {
			continue
		}
		if seenThisParse[name] {
			// Open Question 3: duplicate task name in the same text is
			// warn-and-merge, not an error — the second block reuses the
			// same task handle.
			log.Warn().Str("task", name).Msg("parse-warning: duplicate task name in source, merging into existing task")
		}
		seenThisParse[name] = true

		h, created := w.Tasks.Create(name, model.Task{Name: name})
		if created {
			t := w.Tasks.At(h)
			t.ModeEdit = true
		}
		w.Tasks.MarkVisited(h)
	}
}

// resolveProperties is Pass 2: walks lines again, tracking the currently
// open task, dispatching property lines, resolving cursor entities, and
// closing tasks on '}' (or at end-of-buffer for a still-open task).
func resolveProperties(w *world.World) {
	var openTask arena.Handle = arena.Invalid
	lineOffset := 0

	for i := 0; i < w.Buffer.LineCount(); i++ {
		rawLine := w.Buffer.LineText(i)
		line := stripNewline(rawLine)
		lineStartOffset := lineOffset
		lineOffset += w.Buffer.LineLength(i)

		switch {
		case line == "":
			// blank line: still owned by whatever task is open.
			w.Buffer.SetLineTask(i, openTask)

		case strings.Contains(line, "{"):
			if openTask != arena.Invalid {
				closeTask(w, openTask)
			}
			name, ok := strip(line[:strings.IndexByte(line, '{')])
			if ok {
				h, exists := w.Tasks.Get(name)
				if exists {
					openTask = h
				} else {
					// Pass 1 must have created it; a miss here is a
					// reconciler bug, not a user-facing condition.
					openTask = arena.Invalid
				}
			}
			if openTask != arena.Invalid && cursorWithin(w, lineStartOffset, lineStartOffset+len(rawLine)) {
				w.Cursor.SetEntity(cursor.EntityTask, openTask)
			}
			w.Buffer.SetLineTask(i, openTask)

		case strings.Contains(line, "}"):
			if openTask != arena.Invalid {
				closeTask(w, openTask)
				w.Buffer.SetLineTask(i, openTask)
				openTask = arena.Invalid
			}

		case strings.Contains(line, ":"):
			w.Buffer.SetLineTask(i, openTask)
			if openTask != arena.Invalid {
				dispatchProperty(w, openTask, line, lineStartOffset)
			}

		default:
			w.Buffer.SetLineTask(i, openTask)
		}
	}

	if openTask != arena.Invalid {
		closeTask(w, openTask)
	}
}

// closeTask garbage-collects any user in task's bag that wasn't visited
// this parse, mirroring task_user_remove_unvisited.
func closeTask(w *world.World, h arena.Handle) {
	t := w.Tasks.At(h)
	if t == nil {
		return
	}
	kept := t.Users[:0]
	for _, u := range t.Users {
		if w.Users.Visited(u) {
			kept = append(kept, u)
		} else if user := w.Users.At(u); user != nil {
			user.RemoveTask(h)
		}
	}
	t.Users = kept
}

func cursorWithin(w *world.World, start, end int) bool {
	if len(w.Cursor.Positions) == 0 {
		return false
	}
	off := w.Cursor.Positions[0].Offset
	return off >= start && off <= end
}

func stripNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// sweep destroys any live, edit-mode task not visited this parse (a text
// removal implies task deletion) and any live user whose task bag is now
// empty.
func sweep(w *world.World) {
	var deadTasks []arena.Handle
	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if t.ModeEdit && !w.Tasks.Visited(h) {
			deadTasks = append(deadTasks, h)
		}
	})
	for _, h := range deadTasks {
		detachTaskFromUsers(w, h)
		w.Tasks.Destroy(h)
		log.Debug().Str("task", "").Msg("task removed: not visited this parse")
	}

	var deadUsers []arena.Handle
	w.Users.ForEachLive(func(h arena.Handle, u *model.User) {
		if len(u.Tasks) == 0 {
			deadUsers = append(deadUsers, h)
		}
	})
	for _, h := range deadUsers {
		w.Users.Destroy(h)
	}
}

func detachTaskFromUsers(w *world.World, task arena.Handle) {
	t := w.Tasks.At(task)
	if t == nil {
		return
	}
	for _, uh := range t.Users {
		if u := w.Users.At(uh); u != nil {
			u.RemoveTask(task)
		}
	}
}

// rebuildDependents fully rebuilds every live task's Dependents by scanning
// all live tasks' Prereqs, matching task_dependents_find_all.
func rebuildDependents(w *world.World) {
	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		t.ClearDependents()
	})
	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		for _, p := range t.Prereqs {
			if prereq := w.Tasks.At(p); prereq != nil {
				if err := prereq.AddDependent(h); err != nil {
					log.Warn().Str("task", prereq.Name).Str("dependent", t.Name).Err(err).Msg("capacity-exceeded: dependents bag full")
				}
			}
		}
	})
}
