// Package schedule implements the depth-first constraint-satisfaction
// scheduler: seed fixed-date tasks, extend the frontier forward from
// satisfied prereqs or backward from satisfied dependents, resolve
// per-user conflicts by shifting one day at a time, backtrack on dead
// ends, and keep the shortest-duration complete schedule found.
package schedule

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cezmerr"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/world"
)

// direction a task is pushed into the schedule: forward from a satisfied
// prereq set (search from the latest prereq end date onward), backward from
// a satisfied dependent set (search from the earliest dependent start date
// backward). Mirrors schedule_task_push's schedule_shift_dir.
type direction int64

const (
	forward  direction = 1
	backward direction = -1
)

// maxShiftIterations bounds the per-push conflict-resolution loop, carried
// over from schedule_task_push's `loop_counter > 1e4` guard against an
// infinite shift when no day ever clears the conflict.
const maxShiftIterations = 10000

// unboundedEarly/unboundedLate stand in for the original's SIZE_MAX sentinel
// and its wraparound-as-"no bound yet" trick (Open Question 1: signed day
// arithmetic throughout, no reliance on overflow). Halved so a push's +/-1
// day_duration arithmetic never itself overflows int64.
const (
	unboundedEarly int64 = math.MinInt64 / 2
	unboundedLate  int64 = math.MaxInt64 / 2
)

type event struct {
	date int64
	task arena.Handle
}

// eventList is a candidate (or winning) schedule: the ordered sequence of
// task placements plus the derived project span. Mirrors Schedule_Event_List.
type eventList struct {
	events      []event
	dayStart    int64
	dayEnd      int64
	dayDuration int64
	solved      bool
}

// Stats reports solver outcome timing, in the shape of sublation's
// ExecutionStats.AverageLatency rather than a bespoke struct.
type Stats struct {
	SolveTimeMS    int64
	TasksScheduled int
}

// Solve searches for a feasible schedule covering every live task in w and,
// on success, writes the winning DayStart/DayEnd back onto each task. Tasks
// carrying HAS_FIXED_START or HAS_FIXED_END are locked in place before the
// search begins; every other task must reach a schedule_done state by either
// a satisfied prereq chain or a satisfied dependent chain — an island task
// with neither can never be picked up by solveIter and the search reports
// ScheduleUnsatisfiable once every reachable task has been scheduled. No
// cycle-breaking is attempted (Non-goal): a prereq/dependent cycle leaves
// every task in the cycle permanently unready and Solve fails.
func Solve(w *world.World) (Stats, error) {
	start := time.Now()

	best := &eventList{}
	working := &eventList{}

	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		t.ScheduleDone = false
	})

	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		switch {
		case t.Constraints.Has(model.HasFixedEnd):
			t.DayStart = t.DayEnd - t.DayDuration + 1
		case t.Constraints.Has(model.HasFixedStart):
			t.DayEnd = t.DayStart + t.DayDuration - 1
		default:
			return
		}
		t.ScheduleDone = true
		working.events = append(working.events, event{date: t.DayStart, task: h})
		log.Debug().Str("task", t.Name).Int64("day_start", t.DayStart).
			Msg("schedule: fixed-constraint task locked before search")
	})

	log.Debug().Int("remaining", w.Tasks.Len()-len(working.events)).
		Msg("schedule: tasks remaining after fixed constraints")

	solveIter(w, best, working)

	stats := Stats{SolveTimeMS: time.Since(start).Milliseconds()}

	if !best.solved {
		return stats, cezmerr.New(cezmerr.ScheduleUnsatisfiable,
			"no feasible schedule found for %d tasks", w.Tasks.Len())
	}

	for _, e := range best.events {
		t := w.Tasks.At(e.task)
		if t == nil {
			continue
		}
		t.DayStart = e.date
		t.DeriveEnd()
	}
	stats.TasksScheduled = len(best.events)
	return stats, nil
}

// solveIter is the recursive depth-first search step. Mirrors
// schedule_solve_iter: a complete placement is scored and kept if it beats
// (or is the first) best; otherwise every not-yet-scheduled task whose
// prereqs or dependents are all satisfied is tried in turn, recursed into,
// and popped back out on return so the next candidate starts from the same
// frontier.
func solveIter(w *world.World, best, working *eventList) {
	if w.Tasks.Len()-len(working.events) == 0 {
		working.solved = true
		calculateDuration(w, working)

		if !best.solved || working.dayDuration < best.dayDuration {
			copyEventList(best, working)
		}
		return
	}

	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if t.ScheduleDone {
			return
		}

		dir := direction(0)
		if len(t.Dependents) > 0 && allScheduled(w, t.Dependents) {
			dir = backward
		}
		if len(t.Prereqs) > 0 && allScheduled(w, t.Prereqs) {
			dir = forward
		}
		if dir == 0 {
			return
		}

		if !push(w, working, h, dir) {
			return
		}

		solveIter(w, best, working)
		pop(w, working)
	})
}

func allScheduled(w *world.World, handles []arena.Handle) bool {
	for _, h := range handles {
		t := w.Tasks.At(h)
		if t == nil || !t.ScheduleDone {
			return false
		}
	}
	return true
}

// push computes an initial-guess placement for task h in the given
// direction, shifts it one day at a time while schedule_conflict_detect
// reports a per-user conflict, and records the placement in working on
// success. Mirrors schedule_task_push, including its NO_SOONER lower-bound
// check (Open Question 2: a genuine constraint, not advisory).
func push(w *world.World, working *eventList, h arena.Handle, dir direction) bool {
	t := w.Tasks.At(h)

	var start int64
	switch dir {
	case forward:
		start = unboundedEarly
		for _, p := range t.Prereqs {
			pt := w.Tasks.At(p)
			if pt != nil && start < pt.DayEnd+1 {
				start = pt.DayEnd + 1
			}
		}
		if t.Constraints.Has(model.NoSooner) && start < t.DayNoSooner {
			start = t.DayNoSooner
		}
	case backward:
		start = unboundedLate - t.DayDuration
		for _, d := range t.Dependents {
			dt := w.Tasks.At(d)
			if dt != nil && start+t.DayDuration-1 >= dt.DayStart {
				start = dt.DayStart - t.DayDuration
			}
		}
		if t.Constraints.Has(model.NoSooner) && start < t.DayNoSooner {
			// Pushing backward from dependents can only ever move the
			// candidate earlier; if the initial guess already violates
			// NO_SOONER this branch of the search is a dead end.
			return false
		}
	default:
		cezmerr.Structural("invalid schedule shift direction %d", dir)
	}

	t.DayStart = start
	t.DeriveEnd()

	for iter := 0; conflictDetect(w, h); iter++ {
		if iter > maxShiftIterations {
			log.Warn().Str("task", t.Name).Msg("schedule: conflict-resolution shift loop exceeded bound")
			return false
		}

		t.DayStart += int64(dir)
		t.DeriveEnd()

		if dir == forward {
			for _, d := range t.Dependents {
				dt := w.Tasks.At(d)
				if dt != nil && dt.ScheduleDone && t.DayEnd >= dt.DayStart {
					return false
				}
			}
		} else {
			for _, p := range t.Prereqs {
				pt := w.Tasks.At(p)
				if pt != nil && pt.ScheduleDone && t.DayStart <= pt.DayEnd {
					return false
				}
			}
			if t.Constraints.Has(model.NoSooner) && t.DayStart < t.DayNoSooner {
				return false
			}
		}
	}

	working.events = append(working.events, event{date: t.DayStart, task: h})
	t.ScheduleDone = true
	return true
}

// pop undoes the most recent push, matching schedule_task_pop.
func pop(w *world.World, working *eventList) {
	n := len(working.events) - 1
	ev := working.events[n]
	working.events = working.events[:n]

	if t := w.Tasks.At(ev.task); t != nil {
		t.ScheduleDone = false
	}
}

// conflictDetect reports whether task h's current day_start/day_end window
// overlaps any other schedule_done task sharing a user. Mirrors
// schedule_conflict_detect exactly, including its three-way day_start
// comparison.
func conflictDetect(w *world.World, h arena.Handle) bool {
	t := w.Tasks.At(h)

	for _, u := range t.Users {
		user := w.Users.At(u)
		if user == nil {
			continue
		}
		for _, other := range user.Tasks {
			ot := w.Tasks.At(other)
			if ot == nil || !ot.ScheduleDone {
				continue
			}
			switch {
			case t.DayStart > ot.DayStart:
				if t.DayStart <= ot.DayEnd {
					return true
				}
			case t.DayStart < ot.DayStart:
				if t.DayEnd >= ot.DayStart {
					return true
				}
			default:
				return true
			}
		}
	}
	return false
}

// calculateDuration scans every live task for the earliest day_start and
// latest day_end, matching schedule_calculate_duration.
func calculateDuration(w *world.World, sched *eventList) {
	earliest := unboundedLate
	latest := unboundedEarly

	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		if t.DayStart < earliest {
			earliest = t.DayStart
		}
		if t.DayEnd > latest {
			latest = t.DayEnd
		}
	})

	sched.dayStart = earliest
	sched.dayEnd = latest
	sched.dayDuration = latest - earliest
}

// copyEventList saves working as the new best, matching schedule_copy.
func copyEventList(dst, src *eventList) {
	dst.events = append(dst.events[:0], src.events...)
	dst.dayStart = src.dayStart
	dst.dayEnd = src.dayEnd
	dst.dayDuration = src.dayDuration
	dst.solved = src.solved
}
