package commands

import (
	"strings"
	"testing"

	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/parser"
	"github.com/cezm/cezm/internal/world"
)

func TestInsertTextAppliesAtCursor(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("ab"))
	w.Cursor.Positions[0] = cursor.Position{Offset: 1, Column: 1}

	InsertText(w, "X")

	if w.Buffer.String() != "aXb" {
		t.Errorf("buffer = %q, want %q", w.Buffer.String(), "aXb")
	}
}

func TestBackspaceRemovesPrecedingByte(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("abc"))
	w.Cursor.Positions[0] = cursor.Position{Offset: 2, Column: 2}

	Backspace(w)

	if w.Buffer.String() != "ac" {
		t.Errorf("buffer = %q, want %q", w.Buffer.String(), "ac")
	}
}

func TestDeleteForwardRemovesFollowingByte(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("abc"))
	w.Cursor.Positions[0] = cursor.Position{Offset: 1, Column: 1}

	DeleteForward(w)

	if w.Buffer.String() != "ac" {
		t.Errorf("buffer = %q, want %q", w.Buffer.String(), "ac")
	}
}

func TestMoveCursorMovesEveryPosition(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("abcdef"))
	w.Cursor.Positions = []cursor.Position{{Column: 0}, {Column: 3}}

	MoveCursor(w, cursor.Right)

	if w.Cursor.Positions[0].Column != 1 || w.Cursor.Positions[1].Column != 4 {
		t.Errorf("columns = %d,%d, want 1,4", w.Cursor.Positions[0].Column, w.Cursor.Positions[1].Column)
	}
}

func TestDeselectMultiCursorCollapsesToPrimary(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("abc"))
	w.Cursor.Positions = []cursor.Position{{Offset: 0}, {Offset: 1}, {Offset: 2}}

	DeselectMultiCursor(w)

	if len(w.Cursor.Positions) != 1 {
		t.Fatalf("len(Positions) = %d, want 1", len(w.Cursor.Positions))
	}
	if w.Cursor.Positions[0].Offset != 0 {
		t.Errorf("surviving position = %+v, want the primary (offset 0)", w.Cursor.Positions[0])
	}
}

func TestRenameSymbolDelegatesToSelection(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n}\n"))
	parser.Parse(w)

	h, _ := w.Tasks.Get("build")
	w.Cursor.SetEntity(cursor.EntityTask, h)

	if !RenameSymbol(w) {
		t.Fatal("RenameSymbol = false, want true")
	}
	if !strings.Contains(w.Buffer.String(), "build") {
		t.Errorf("buffer after rename = %q, want it to still contain build", w.Buffer.String())
	}
}

func TestSyncDisplaySelectionPropagatesToUsers(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n  user: alice\n}\n"))
	parser.Parse(w)

	h, _ := w.Tasks.Get("build")
	w.Tasks.At(h).ModeEdit = true

	SyncDisplaySelection(w)

	aliceH, _ := w.Users.Get("alice")
	if !w.Users.At(aliceH).ModeEdit {
		t.Error("SyncDisplaySelection did not mark alice edit-mode")
	}
}

func TestUniqueNameAvoidsCollision(t *testing.T) {
	t.Parallel()
	w := world.FromBytes([]byte("build {\n}\nbuild_split {\n}\n"))
	parser.Parse(w)

	name := uniqueName(w, "build_split")
	if name == "build_split" {
		t.Errorf("uniqueName returned a name already in use: %q", name)
	}
	if _, taken := w.Tasks.Get(name); taken {
		t.Errorf("uniqueName returned %q, which is already taken", name)
	}
}
