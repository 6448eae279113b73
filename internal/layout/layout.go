// Package layout derives the display-side geometry from a scheduled graph:
// per-user columns evenly spaced across the display body, one task-display
// record per (task, assigned user) pair (or a single no-user record), and
// the Bezier curves connecting each task-display to its dependents'
// displays.
package layout

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cezmerr"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/world"
)

// DisplayTaskLimit caps the number of task-display records in one layout,
// restored from the original editor's TASK_DISPLAY_LIMIT. Exceeding it is a
// hard error rather than silent truncation.
const DisplayTaskLimit = 1024

// ColumnMarginPx is subtracted from the even column-width division, matching
// the original's "- 30 // 30 px margin" comment.
const ColumnMarginPx = 30

// ControlOffsetPx is the Bezier curve's fixed vertical control-point offset,
// carried over verbatim from draw_dependency_curve's control_offset.
const ControlOffsetPx = 80

// CurveSteps is the number of line segments sampled per curve, matching
// draw_dependency_curve's `increment = 1.0/48.0`.
const CurveSteps = 48

// Rect is an axis-aligned pixel rectangle, the Go analogue of SDL_Rect as
// used for task-display geometry (no rendering, no camera offset — this
// package stops at the "global" rectangle the original computed before
// applying display_camera_y).
type Rect struct {
	X, Y, W, H int
}

// Point is one sample along a dependency curve.
type Point struct {
	X, Y int
}

// TaskDisplay is one plotted task block: a reference to the task, the user
// it's drawn under (arena.Invalid for the no-user column), and its pixel
// rectangle.
type TaskDisplay struct {
	Task arena.Handle
	User arena.Handle
	Rect Rect

	// dependents holds the index, within the owning Layout.Tasks slice, of
	// every task-display whose task lists this display's task as a prereq
	// — the mirror of the original's per-task dependents_display list.
	dependents []int
}

// Layout is the complete display-side geometry for one scheduled graph.
type Layout struct {
	Tasks []TaskDisplay

	ColumnWidthPx        int
	NoUserColumnCenterPx int
	HasNoUserColumn      bool
}

// Compute assigns user columns and builds the task-display list for every
// live task in w, given the display body's pixel width, the project's
// earliest scheduled day (the minimum DayStart across live tasks, which the
// caller computes), and a caller-chosen pixels-per-day zoom level. Grounded on
// original_source/main.c's column-assignment block (the
// orphaned_tasks/user_column_increment computation) and its task-display
// build loop (the per-user-or-nouser record plus dependents_display
// back-reference).
func Compute(w *world.World, viewportWidthPx int, projectDayStart int64, pixelsPerDay int) (*Layout, error) {
	orphaned := false
	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		if len(t.Users) == 0 {
			orphaned = true
		}
	})

	userCount := w.Users.Len()
	columnDenom := userCount
	if orphaned {
		columnDenom++
	}
	if columnDenom == 0 {
		columnDenom = 1
	}
	increment := viewportWidthPx / columnDenom

	count := 0
	loc := increment / 2
	if orphaned {
		count = 1
		loc = increment + increment/2
	}
	noUserCenter := increment / 2

	w.Users.ForEachLive(func(_ arena.Handle, u *model.User) {
		u.ColumnIndex = count
		u.ColumnCenterPx = loc
		loc += increment
		count++
	})

	widthDenom := count
	if widthDenom == 0 {
		widthDenom = 1
	}
	columnWidth := viewportWidthPx/widthDenom - ColumnMarginPx

	lay := &Layout{
		ColumnWidthPx:        columnWidth,
		NoUserColumnCenterPx: noUserCenter,
		HasNoUserColumn:      orphaned,
	}

	dependentsOf := make(map[arena.Handle][]int)

	var buildErr error
	w.Tasks.ForEachLive(func(h arena.Handle, t *model.Task) {
		if buildErr != nil {
			return
		}
		if len(t.Users) > 0 {
			for _, u := range t.Users {
				columnPx := w.Users.At(u).ColumnCenterPx
				if err := lay.appendDisplay(h, t, u, columnPx, pixelsPerDay, projectDayStart, dependentsOf); err != nil {
					buildErr = err
					return
				}
			}
		} else {
			if err := lay.appendDisplay(h, t, arena.Invalid, noUserCenter, pixelsPerDay, projectDayStart, dependentsOf); err != nil {
				buildErr = err
				return
			}
		}
	})
	if buildErr != nil {
		return nil, buildErr
	}

	for i := range lay.Tasks {
		lay.Tasks[i].dependents = dependentsOf[lay.Tasks[i].Task]
	}

	return lay, nil
}

func (lay *Layout) appendDisplay(h arena.Handle, t *model.Task, userH arena.Handle, columnPx, pixelsPerDay int, projectDayStart int64, dependentsOf map[arena.Handle][]int) error {
	if len(lay.Tasks) >= DisplayTaskLimit {
		return cezmerr.New(cezmerr.CapacityExceeded, "display-task list already has %d records (max %d)", len(lay.Tasks), DisplayTaskLimit)
	}

	rect := Rect{
		X: columnPx - lay.ColumnWidthPx/2,
		Y: pixelsPerDay * int(t.DayStart-projectDayStart),
		W: lay.ColumnWidthPx,
		H: pixelsPerDay * int(t.DayDuration),
	}

	idx := len(lay.Tasks)
	lay.Tasks = append(lay.Tasks, TaskDisplay{Task: h, User: userH, Rect: rect})

	for _, p := range t.Prereqs {
		dependentsOf[p] = append(dependentsOf[p], idx)
	}
	return nil
}

// Dependents returns the task-display records, within the same Layout,
// whose task lists td's task as a prereq — i.e. td's dependents' displays.
func (lay *Layout) Dependents(td TaskDisplay) []TaskDisplay {
	out := make([]TaskDisplay, 0, len(td.dependents))
	for _, idx := range td.dependents {
		out = append(out, lay.Tasks[idx])
	}
	return out
}

// DependencyCurve samples a cubic Bezier from the bottom-center of `from` to
// the top-center of `to`, with a fixed vertical control-point offset.
// Grounded on draw_dependency_curve's De Casteljau-by-formula evaluation
// and its fixed 1/48 step size.
func DependencyCurve(from, to Rect) []Point {
	startX := from.X + from.W/2
	startY := from.Y + from.H
	endX := to.X + to.W/2
	endY := to.Y

	points := make([]Point, 0, CurveSteps+1)
	points = append(points, Point{X: startX, Y: startY})

	for step := 1; step <= CurveSteps; step++ {
		t := float64(step) / float64(CurveSteps)
		it := 1 - t

		x := it*it*it*float64(startX) +
			3.0*it*it*t*float64(startX) +
			3.0*it*t*t*float64(endX) +
			t*t*t*float64(endX)
		y := it*it*it*float64(startY) +
			3.0*it*it*t*float64(startY+ControlOffsetPx) +
			3.0*it*t*t*float64(endY-ControlOffsetPx) +
			t*t*t*float64(endY)

		points = append(points, Point{X: int(x), Y: int(y)})
	}
	return points
}
