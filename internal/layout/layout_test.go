package layout

import (
	"testing"

	"github.com/cezm/cezm/internal/cezmerr"
	"github.com/cezm/cezm/internal/parser"
	"github.com/cezm/cezm/internal/world"
)

func TestComputeAssignsEvenlySpacedColumns(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"build {\n  duration: 3\n  fixed_start: 2026-01-01\n  user: alice, bob\n}\n"))
	parser.Parse(w)

	lay, err := Compute(w, 900, 0, 10)
	if err != nil {
		t.Fatalf("Compute = %v", err)
	}

	aliceH, _ := w.Users.Get("alice")
	bobH, _ := w.Users.Get("bob")
	alice := w.Users.At(aliceH)
	bob := w.Users.At(bobH)

	if alice.ColumnCenterPx == bob.ColumnCenterPx {
		t.Errorf("alice and bob share a column center %d", alice.ColumnCenterPx)
	}
	if lay.HasNoUserColumn {
		t.Errorf("HasNoUserColumn = true, want false (every task has users)")
	}
	if len(lay.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2 (one display per assigned user)", len(lay.Tasks))
	}
}

func TestComputeReservesNoUserColumn(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n  duration: 3\n  fixed_start: 2026-01-01\n}\n"))
	parser.Parse(w)

	lay, err := Compute(w, 900, 0, 10)
	if err != nil {
		t.Fatalf("Compute = %v", err)
	}
	if !lay.HasNoUserColumn {
		t.Errorf("HasNoUserColumn = false, want true (task has zero users)")
	}
	if len(lay.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(lay.Tasks))
	}
	if lay.Tasks[0].User != -1 {
		t.Errorf("Tasks[0].User = %v, want arena.Invalid", lay.Tasks[0].User)
	}
}

func TestComputeDerivesRectFromScheduledDates(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n  duration: 3\n  fixed_start: 2026-01-01\n}\n"))
	parser.Parse(w)

	buildH, _ := w.Tasks.Get("build")
	build := w.Tasks.At(buildH)
	build.DayStart = 10
	build.DayEnd = 12

	lay, err := Compute(w, 900, 5, 10)
	if err != nil {
		t.Fatalf("Compute = %v", err)
	}

	rect := lay.Tasks[0].Rect
	if rect.Y != 10*(10-5) {
		t.Errorf("Rect.Y = %d, want %d", rect.Y, 10*(10-5))
	}
	if rect.H != 10*3 {
		t.Errorf("Rect.H = %d, want %d", rect.H, 10*3)
	}
}

func TestComputeFailsOverDisplayTaskLimit(t *testing.T) {
	t.Parallel()
	var src string
	for i := 0; i < DisplayTaskLimit+1; i++ {
		src += "t" + itoa(i) + " {\n  duration: 1\n  fixed_start: 2026-01-01\n}\n"
	}
	w := world.FromBytes([]byte(src))
	parser.Parse(w)

	_, err := Compute(w, 900, 0, 10)
	if !cezmerr.IsKind(err, cezmerr.CapacityExceeded) {
		t.Fatalf("Compute over the display-task limit = %v, want CapacityExceeded", err)
	}
}

func TestDependencyCurveStartsAndEndsAtAnchors(t *testing.T) {
	t.Parallel()
	from := Rect{X: 0, Y: 0, W: 40, H: 30}
	to := Rect{X: 100, Y: 200, W: 40, H: 30}

	curve := DependencyCurve(from, to)
	if len(curve) != CurveSteps+1 {
		t.Fatalf("len(curve) = %d, want %d", len(curve), CurveSteps+1)
	}

	first := curve[0]
	if first.X != from.X+from.W/2 || first.Y != from.Y+from.H {
		t.Errorf("first point = %+v, want bottom-center of from", first)
	}

	last := curve[len(curve)-1]
	if last.X != to.X+to.W/2 || last.Y != to.Y {
		t.Errorf("last point = %+v, want top-center of to", last)
	}
}

func TestComputeLinksDependentsAcrossColumns(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"design {\n  duration: 2\n  fixed_start: 2026-01-01\n  user: alice\n}\n" +
			"build {\n  prereq: design\n  duration: 3\n  user: bob\n}\n"))
	parser.Parse(w)

	lay, err := Compute(w, 900, 0, 10)
	if err != nil {
		t.Fatalf("Compute = %v", err)
	}

	designH, _ := w.Tasks.Get("design")
	var designDisplay TaskDisplay
	for _, td := range lay.Tasks {
		if td.Task == designH {
			designDisplay = td
		}
	}

	deps := lay.Dependents(designDisplay)
	if len(deps) != 1 {
		t.Fatalf("len(Dependents(design)) = %d, want 1", len(deps))
	}
	buildH, _ := w.Tasks.Get("build")
	if deps[0].Task != buildH {
		t.Errorf("design's dependent display = task %v, want build (%v)", deps[0].Task, buildH)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
