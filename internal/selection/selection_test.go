package selection

import (
	"strings"
	"testing"

	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/layout"
	"github.com/cezm/cezm/internal/parser"
	"github.com/cezm/cezm/internal/world"
)

func TestCursorTaskFindsOwningTask(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n  duration: 3\n}\n"))
	parser.Parse(w)

	w.Cursor.Positions[0].Row = 1 // the "duration: 3" line

	h, ok := CursorTask(w)
	if !ok {
		t.Fatal("CursorTask = not found, want build")
	}
	if name, _ := w.Tasks.NameOf(h); name != "build" {
		t.Errorf("CursorTask = %q, want build", name)
	}
}

func TestCursorTaskOutsideAnyBlock(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n}\n\nstray line\n"))
	parser.Parse(w)

	w.Cursor.Positions[0].Row = 2 // blank line between blocks, owned by no task

	if _, ok := CursorTask(w); ok {
		t.Error("CursorTask on an unowned line reported found")
	}
}

func TestRetargetDisplayCursorMatchesEditorCursorsTask(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"design {\n  duration: 2\n  fixed_start: 2026-01-01\n}\n" +
			"build {\n  duration: 3\n  fixed_start: 2026-01-05\n}\n"))
	parser.Parse(w)

	lay, err := layout.Compute(w, 900, 0, 10)
	if err != nil {
		t.Fatalf("layout.Compute = %v", err)
	}

	w.Cursor.Positions[0].Row = 4 // inside "build {"

	idx, ok := RetargetDisplayCursor(w, lay)
	if !ok {
		t.Fatal("RetargetDisplayCursor = not found")
	}
	buildH, _ := w.Tasks.Get("build")
	if lay.Tasks[idx].Task != buildH {
		t.Errorf("RetargetDisplayCursor picked task %v, want build", lay.Tasks[idx].Task)
	}
}

func TestRetargetEditorCursorMovesToFirstOwningLine(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"design {\n  duration: 2\n  fixed_start: 2026-01-01\n}\n" +
			"build {\n  duration: 3\n  fixed_start: 2026-01-05\n}\n"))
	parser.Parse(w)

	lay, err := layout.Compute(w, 900, 0, 10)
	if err != nil {
		t.Fatalf("layout.Compute = %v", err)
	}

	var buildIdx int
	buildH, _ := w.Tasks.Get("build")
	for i, td := range lay.Tasks {
		if td.Task == buildH {
			buildIdx = i
		}
	}

	if !RetargetEditorCursor(w, lay, buildIdx) {
		t.Fatal("RetargetEditorCursor = false, want true")
	}
	if w.Buffer.LineTask(w.Cursor.Positions[0].Row) != buildH {
		t.Errorf("editor cursor landed on a line not owned by build")
	}
}

func TestRenameWithNoResolvedEntityIsNoop(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n}\n"))
	parser.Parse(w)

	if Rename(w) {
		t.Error("Rename with no resolved cursor entity reported success")
	}
}

func TestRenameMarksTaskAndDependentsAndDeploysMultiCursor(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"design {\n}\nbuild {\n  prereq: design\n}\n"))
	parser.Parse(w)

	designH, _ := w.Tasks.Get("design")
	buildH, _ := w.Tasks.Get("build")
	w.Tasks.At(designH).ModeEdit = false
	w.Tasks.At(buildH).ModeEdit = false

	w.Cursor.SetEntity(cursor.EntityTask, designH)

	if !Rename(w) {
		t.Fatal("Rename = false, want true")
	}

	if !w.Tasks.At(designH).ModeEdit {
		t.Error("Rename did not mark the renamed task edit-mode")
	}
	if !w.Tasks.At(buildH).ModeEdit {
		t.Error("Rename did not mark the dependent task edit-mode")
	}

	if got := strings.Count(w.Buffer.String(), "design"); got < 2 {
		t.Errorf("regenerated text contains %d occurrences of design, want at least 2 (own block + build's prereq)", got)
	}
	if len(w.Cursor.Positions) < 2 {
		t.Errorf("len(Cursor.Positions) = %d, want a cursor at every occurrence", len(w.Cursor.Positions))
	}
}

func TestRenameUserMarksEveryAssignedTask(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte(
		"taskA {\n  user: alice\n}\ntaskB {\n  user: alice\n}\n"))
	parser.Parse(w)

	aH, _ := w.Tasks.Get("taskA")
	bH, _ := w.Tasks.Get("taskB")
	w.Tasks.At(aH).ModeEdit = false
	w.Tasks.At(bH).ModeEdit = false

	aliceH, _ := w.Users.Get("alice")
	w.Cursor.SetEntity(cursor.EntityUser, aliceH)

	if !Rename(w) {
		t.Fatal("Rename = false, want true")
	}
	if !w.Tasks.At(aH).ModeEdit || !w.Tasks.At(bH).ModeEdit {
		t.Error("Rename of a user did not mark all of the user's tasks edit-mode")
	}
}
