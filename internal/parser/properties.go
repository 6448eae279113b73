package parser

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/dateconv"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/world"
)

// dispatchProperty handles one "prop: value{, value}" line for the
// currently open task. lineStart is the line's byte offset in w.Buffer,
// used to test whether the cursor falls within a value's span.
func dispatchProperty(w *world.World, taskH arena.Handle, line string, lineStart int) {
	split := strings.IndexByte(line, ':')
	if split < 0 {
		return
	}
	property, ok := strip(line[:split])
	if !ok {
		return
	}
	valueRaw := line[split+1:]
	value, ok := strip(valueRaw)
	if !ok {
		return
	}
	// Value span starts right after the ':' in the original line; used for
	// per-item cursor resolution below.
	valueOffset := lineStart + split + 1

	task := w.Tasks.At(taskH)
	if task == nil {
		return
	}

	switch property {
	case "user":
		dispatchUserList(w, task, taskH, valueRaw, valueOffset)
	case "prereq":
		dispatchPrereqList(w, task, valueRaw, valueOffset)
	case "duration":
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: not an integer")
			return
		}
		task.DayDuration = int64(n)
		task.Constraints |= model.HasDuration
	case "fixed_start":
		day, ok := dateconv.Parse(value)
		if !ok {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: bad date")
			return
		}
		task.DayStart = day
		task.Constraints |= model.HasFixedStart
	case "fixed_end":
		day, ok := dateconv.Parse(value)
		if !ok {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: bad date")
			return
		}
		task.DayEnd = day
		task.Constraints |= model.HasFixedEnd
	case "no_sooner":
		day, ok := dateconv.Parse(value)
		if !ok {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: bad date")
			return
		}
		task.DayNoSooner = day
		task.Constraints |= model.NoSooner
	case "color":
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: not an integer")
			return
		}
		task.StatusColor = model.ClampColor(n)
	case "subsystem":
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Str("property", property).Str("value", value).Msg("parse-warning: not an integer")
			return
		}
		if n < 0 {
			n = 0
		}
		task.SubsystemID = uint16(n)
	default:
		log.Warn().Str("property", property).Msg("parse-warning: unrecognized property")
	}
}

// dispatchUserList finds-or-creates each comma-separated user, adds it to
// the task's bag, marks it visited, and resolves the cursor if it falls
// within this item's span.
func dispatchUserList(w *world.World, task *model.Task, taskH arena.Handle, raw string, baseOffset int) {
	forEachListItem(raw, baseOffset, func(value string, itemStart, itemEnd int) {
		h, _ := w.Users.Create(value, model.User{Name: value})
		u := w.Users.At(h)
		u.ModeEdit = true
		w.Users.MarkVisited(h)

		if err := task.AddUser(h); err != nil {
			log.Warn().Str("task", task.Name).Str("user", value).Err(err).Msg("capacity-exceeded: user bag full")
			return
		}
		u.AddTask(taskH)

		if cursorWithin(w, itemStart, itemEnd) {
			w.Cursor.SetEntity(cursor.EntityUser, h)
		}
	})
}

// dispatchPrereqList looks up each comma-separated task name; a missing
// name is silently skipped, matching spec.md's stated parser failure
// semantics.
func dispatchPrereqList(w *world.World, task *model.Task, raw string, baseOffset int) {
	forEachListItem(raw, baseOffset, func(value string, itemStart, itemEnd int) {
		h, ok := w.Tasks.Get(value)
		if !ok {
			return
		}
		if err := task.AddPrereq(h); err != nil {
			log.Warn().Str("task", task.Name).Str("prereq", value).Err(err).Msg("capacity-exceeded: prereq bag full")
			return
		}
		if cursorWithin(w, itemStart, itemEnd) {
			w.Cursor.SetEntity(cursor.EntityPrereq, h)
		}
	})
}

// forEachListItem splits raw on commas, strips each field, and calls fn
// with the stripped value plus that field's original byte span (relative
// to the whole buffer, via baseOffset) for cursor resolution.
func forEachListItem(raw string, baseOffset int, fn func(value string, start, end int)) {
	pos := 0
	for pos <= len(raw) {
		next := strings.IndexByte(raw[pos:], ',')
		var field string
		var fieldEnd int
		if next < 0 {
			field = raw[pos:]
			fieldEnd = len(raw)
		} else {
			field = raw[pos : pos+next]
			fieldEnd = pos + next
		}
		if value, ok := strip(field); ok {
			fn(value, baseOffset+pos, baseOffset+fieldEnd)
		}
		if next < 0 {
			break
		}
		pos += next + 1
	}
}
