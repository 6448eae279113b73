// Package cursor implements the multi-cursor model: a set of positions
// ordered by buffer offset, one shared resolved domain entity, and the
// movement/sort/coordinate-mapping operations the editor view needs.
package cursor

import (
	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/textbuf"
)

// Direction is a cursor movement command.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
)

// EntityKind tags what kind of domain object, if any, the primary cursor
// currently resolves to.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityTask
	EntityUser
	EntityPrereq
)

// Position is one cursor's location. DesiredColumn is not part of the
// spec's three-field position but is required to implement the "preserve
// desired column across UP/DOWN through short lines" rule without losing
// the original column once a short line clamps Column down.
type Position struct {
	Offset        int
	Column        int
	Row           int
	DesiredColumn int
}

// Set is the ordered (by Offset, ascending) list of cursor positions plus
// the single shared resolved entity, derived from Set.Positions[0].
type Set struct {
	Positions []Position

	EntityKind EntityKind
	EntityRef  arena.Handle
}

// Reset collapses the cursor to a single position at the buffer start with
// no resolved entity.
func Reset() *Set {
	return &Set{
		Positions:  []Position{{}},
		EntityKind: EntityNone,
		EntityRef:  arena.Invalid,
	}
}

// SetEntity records the resolved domain entity for the primary cursor. Only
// the parser calls this, during Pass 2 cursor-entity resolution.
func (s *Set) SetEntity(kind EntityKind, ref arena.Handle) {
	s.EntityKind = kind
	s.EntityRef = ref
}

func lineContentLen(buf *textbuf.Buffer, row int) int {
	l := buf.LineLength(row)
	if l == 0 {
		return 0
	}
	text := buf.LineText(row)
	if text[len(text)-1] == '\n' {
		return l - 1
	}
	return l
}

// XYFromOffset converts a buffer offset into (row, column).
func XYFromOffset(buf *textbuf.Buffer, offset int) (row, col int) {
	row = buf.LineAt(offset)
	col = offset - buf.LineOffset(row)
	if max := lineContentLen(buf, row); col > max {
		col = max
	}
	if col < 0 {
		col = 0
	}
	return row, col
}

// OffsetFromXY converts (row, column) into a buffer offset, clamping both
// to the buffer's actual extent.
func OffsetFromXY(buf *textbuf.Buffer, row, col int) int {
	if row < 0 {
		row = 0
	}
	if row >= buf.LineCount() {
		row = buf.LineCount() - 1
	}
	max := lineContentLen(buf, row)
	if col < 0 {
		col = 0
	}
	if col > max {
		col = max
	}
	return buf.LineOffset(row) + col
}

// Move applies dir to Positions[index] and re-derives its Offset. Motion
// never crosses buffer boundaries: LEFT at (0,0) and RIGHT at buffer end
// are no-ops.
func (s *Set) Move(buf *textbuf.Buffer, index int, dir Direction) {
	if index < 0 || index >= len(s.Positions) {
		return
	}
	p := &s.Positions[index]

	switch dir {
	case Left:
		if p.Column > 0 {
			p.Column--
		} else if p.Row > 0 {
			p.Row--
			p.Column = lineContentLen(buf, p.Row)
		}
		p.DesiredColumn = p.Column

	case Right:
		contentLen := lineContentLen(buf, p.Row)
		if p.Column < contentLen {
			p.Column++
		} else if p.Row < buf.LineCount()-1 {
			p.Row++
			p.Column = 0
		}
		p.DesiredColumn = p.Column

	case Up:
		if p.Row > 0 {
			p.Row--
		}
		p.Column = clampToLine(buf, p.Row, p.DesiredColumn)

	case Down:
		if p.Row < buf.LineCount()-1 {
			p.Row++
		}
		p.Column = clampToLine(buf, p.Row, p.DesiredColumn)

	case LineStart:
		p.Column = 0
		p.DesiredColumn = 0

	case LineEnd:
		p.Column = lineContentLen(buf, p.Row)
		p.DesiredColumn = p.Column
	}

	p.Offset = OffsetFromXY(buf, p.Row, p.Column)
}

func clampToLine(buf *textbuf.Buffer, row, col int) int {
	max := lineContentLen(buf, row)
	if col > max {
		return max
	}
	if col < 0 {
		return 0
	}
	return col
}

// RefreshXY recomputes every position's (row, column) from its Offset.
// Called after a buffer mutation that the caller has already adjusted
// offsets for (e.g. a multi-cursor insert), to keep row/column in sync.
func (s *Set) RefreshXY(buf *textbuf.Buffer) {
	for i := range s.Positions {
		row, col := XYFromOffset(buf, s.Positions[i].Offset)
		s.Positions[i].Row = row
		s.Positions[i].Column = col
		s.Positions[i].DesiredColumn = col
	}
}

// Sort orders Positions by Offset ascending using a Hoare quicksort.
// Callers should not hand it cursors carrying duplicate offsets; ties are
// not given a defined secondary order.
func (s *Set) Sort() {
	quicksort(s.Positions, 0, len(s.Positions)-1)
}

func quicksort(items []Position, lo, hi int) {
	if lo >= hi {
		return
	}
	p := partition(items, lo, hi)
	quicksort(items, lo, p)
	quicksort(items, p+1, hi)
}

func partition(items []Position, lo, hi int) int {
	pivot := items[lo+(hi-lo)/2].Offset
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if items[i].Offset >= pivot {
				break
			}
		}
		for {
			j--
			if items[j].Offset <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		items[i], items[j] = items[j], items[i]
	}
}

// DeleteBackward removes n bytes immediately before each cursor position
// (a backspace), left-to-right, shrinking every later cursor's offset by
// the bytes already removed so positions stay mutually consistent.
func (s *Set) DeleteBackward(buf *textbuf.Buffer, n int) {
	s.Sort()
	shrink := 0
	for i := range s.Positions {
		at := s.Positions[i].Offset - shrink
		del := n
		if del > at {
			del = at
		}
		buf.Delete(at-del, del)
		shrink += del
		s.Positions[i].Offset = at - del
	}
	buf.Recompute()
	s.RefreshXY(buf)
}

// DeleteForward removes n bytes starting at each cursor position (a
// forward delete), left-to-right, shrinking every later cursor's offset by
// the bytes already removed.
func (s *Set) DeleteForward(buf *textbuf.Buffer, n int) {
	s.Sort()
	shrink := 0
	for i := range s.Positions {
		at := s.Positions[i].Offset - shrink
		buf.Delete(at, n)
		shrink += n
		s.Positions[i].Offset = at
	}
	buf.Recompute()
	s.RefreshXY(buf)
}

// MoveAll applies dir to every cursor position.
func (s *Set) MoveAll(buf *textbuf.Buffer, dir Direction) {
	for i := range s.Positions {
		s.Move(buf, i, dir)
	}
}

// InsertAll applies the same byte content at every cursor position,
// left-to-right, adjusting each later cursor's offset by the net growth
// caused by earlier insertions so positions stay mutually consistent, then
// recomputes the buffer's derived line state once at the end.
func (s *Set) InsertAll(buf *textbuf.Buffer, content []byte) {
	s.Sort()
	growth := 0
	for i := range s.Positions {
		at := s.Positions[i].Offset + growth
		buf.Insert(at, content)
		growth += len(content)
		s.Positions[i].Offset = at + len(content)
	}
	buf.Recompute()
	s.RefreshXY(buf)
}
