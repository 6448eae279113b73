// Package serialize implements the graph→text emitter: it walks live tasks
// in arena order and writes the canonical block for each one that passes
// the edit-mode filter, recording which output line belongs to which task
// as it goes.
package serialize

import (
	"strconv"
	"strings"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/dateconv"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/world"
)

// Filter selects which live tasks participate in the emitted projection.
type Filter int

const (
	// EditProjection emits tasks with ModeEdit or ModeEditTemp set — the
	// text the user is actively editing.
	EditProjection Filter = iota
	// AllTasks emits every live task — used for save-to-file.
	AllTasks
)

// Generate walks w.Tasks in arena order and replaces w.Buffer's contents
// with the emitted projection, then records each output line's owning task
// via w.Buffer.SetLineTask. Empty output is replaced with a single space
// to keep the buffer non-empty, matching the original editor's fallback.
func Generate(w *world.World, filter Filter) {
	var b strings.Builder
	var lineTasks []arena.Handle

	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if filter == AllTasks || t.ModeEdit || t.ModeEditTemp {
			emitTask(w, h, t, &b, &lineTasks)
		}
	})

	out := b.String()
	if out == "" {
		out = " "
	}
	w.Buffer.Replace([]byte(out))

	for i, h := range lineTasks {
		w.Buffer.SetLineTask(i, h)
	}
}

func emitTask(w *world.World, h arena.Handle, t *model.Task, b *strings.Builder, lineTasks *[]arena.Handle) {
	writeLine(b, lineTasks, h, t.Name+" {")

	if t.Constraints.Has(model.HasDuration) {
		writeLine(b, lineTasks, h, "  duration: "+strconv.FormatInt(t.DayDuration, 10))
	}

	if len(t.Prereqs) > 0 {
		names := make([]string, 0, len(t.Prereqs))
		for _, p := range t.Prereqs {
			if name, ok := w.Tasks.NameOf(p); ok {
				names = append(names, name)
			}
		}
		writeLine(b, lineTasks, h, "  prereq: "+strings.Join(names, ", "))
	}

	if len(t.Users) > 0 {
		names := make([]string, 0, len(t.Users))
		for _, u := range t.Users {
			if name, ok := w.Users.NameOf(u); ok {
				names = append(names, name)
			}
		}
		writeLine(b, lineTasks, h, "  user: "+strings.Join(names, ", "))
	}

	if t.Constraints.Has(model.HasFixedStart) {
		writeLine(b, lineTasks, h, "  fixed_start: "+dateconv.Format(t.DayStart))
	}
	if t.Constraints.Has(model.HasFixedEnd) {
		writeLine(b, lineTasks, h, "  fixed_end: "+dateconv.Format(t.DayEnd))
	}
	if t.Constraints.Has(model.NoSooner) {
		writeLine(b, lineTasks, h, "  no_sooner: "+dateconv.Format(t.DayNoSooner))
	}
	if t.SubsystemID != 0 {
		writeLine(b, lineTasks, h, "  subsystem: "+strconv.Itoa(int(t.SubsystemID)))
	}

	writeLine(b, lineTasks, h, "  color: "+strconv.Itoa(int(t.StatusColor)))

	writeLine(b, lineTasks, h, "}")
}

func writeLine(b *strings.Builder, lineTasks *[]arena.Handle, owner arena.Handle, line string) {
	b.WriteString(line)
	b.WriteByte('\n')
	*lineTasks = append(*lineTasks, owner)
}
