// Package textbuf implements the mutable character buffer the parser and
// serializer operate on: a flat byte slice plus two arrays derived from it,
// line_length and line_task, which the rest of the system treats as
// read-only until the next Recompute.
package textbuf

import "github.com/cezm/cezm/internal/arena"

// Buffer is a mutable UTF-8 byte region with derived per-line bookkeeping.
// It owns no task data directly; LineTask entries are arena handles supplied
// by the parser during reconciliation or by the serializer as it emits each
// line, and cleared by Recompute.
type Buffer struct {
	data []byte

	lineLength []int
	lineTask   []arena.Handle
}

// New returns an empty buffer with lines already computed (a single, empty
// line).
func New() *Buffer {
	b := &Buffer{}
	b.Recompute()
	return b
}

// FromBytes returns a buffer seeded with initial content.
func FromBytes(content []byte) *Buffer {
	b := &Buffer{data: append([]byte(nil), content...)}
	b.Recompute()
	return b
}

// Len returns the total buffer length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the buffer's current contents. Callers must not mutate the
// returned slice.
func (b *Buffer) Bytes() []byte { return b.data }

// String returns the buffer's current contents as a string.
func (b *Buffer) String() string { return string(b.data) }

// Insert splices bytes into the buffer at offset. offset is clamped to
// [0, Len()]. Recompute is not called automatically; callers must call it
// before consulting line-indexed data, per spec.md's Text Buffer contract.
func (b *Buffer) Insert(offset int, content []byte) {
	offset = clamp(offset, 0, len(b.data))
	grown := make([]byte, 0, len(b.data)+len(content))
	grown = append(grown, b.data[:offset]...)
	grown = append(grown, content...)
	grown = append(grown, b.data[offset:]...)
	b.data = grown
}

// Delete removes n bytes starting at offset, clamped to the buffer's bounds.
func (b *Buffer) Delete(offset, n int) {
	offset = clamp(offset, 0, len(b.data))
	end := clamp(offset+n, offset, len(b.data))
	b.data = append(b.data[:offset], b.data[end:]...)
}

// Recompute rescans the buffer from scratch, rebuilding LineLength. Trailing
// newlines are counted as part of the line that owns them; a final
// non-terminated line is still a line. LineTask is reset to an Invalid
// handle for every line; the parser (on reparse) and the serializer (on
// regeneration) set it again, since they know which task a line belongs to.
func (b *Buffer) Recompute() {
	b.lineLength = b.lineLength[:0]
	start := 0
	for i, c := range b.data {
		if c == '\n' {
			b.lineLength = append(b.lineLength, i-start+1)
			start = i + 1
		}
	}
	if start < len(b.data) || len(b.lineLength) == 0 {
		b.lineLength = append(b.lineLength, len(b.data)-start)
	}

	b.lineTask = make([]arena.Handle, len(b.lineLength))
	for i := range b.lineTask {
		b.lineTask[i] = arena.Invalid
	}
}

// LineCount returns the number of lines, always >= 1.
func (b *Buffer) LineCount() int { return len(b.lineLength) }

// LineLength returns the byte length (including trailing newline, if any)
// of line i.
func (b *Buffer) LineLength(i int) int {
	if i < 0 || i >= len(b.lineLength) {
		return 0
	}
	return b.lineLength[i]
}

// LineOffset returns the byte offset at which line i begins.
func (b *Buffer) LineOffset(i int) int {
	off := 0
	for j := 0; j < i && j < len(b.lineLength); j++ {
		off += b.lineLength[j]
	}
	return off
}

// LineAt returns the line index containing byte offset, clamped to the
// buffer's range.
func (b *Buffer) LineAt(offset int) int {
	offset = clamp(offset, 0, len(b.data))
	off := 0
	for i, l := range b.lineLength {
		if offset < off+l || i == len(b.lineLength)-1 {
			return i
		}
		off += l
	}
	return 0
}

// LineText returns line i's text, newline included if present.
func (b *Buffer) LineText(i int) string {
	if i < 0 || i >= len(b.lineLength) {
		return ""
	}
	off := b.LineOffset(i)
	return string(b.data[off : off+b.lineLength[i]])
}

// SetLineTask records which task owns line i. Called by the parser during
// reconciliation and by the serializer for each line it emits.
func (b *Buffer) SetLineTask(i int, h arena.Handle) {
	if i >= 0 && i < len(b.lineTask) {
		b.lineTask[i] = h
	}
}

// LineTask returns the task handle owning line i, or arena.Invalid.
func (b *Buffer) LineTask(i int) arena.Handle {
	if i < 0 || i >= len(b.lineTask) {
		return arena.Invalid
	}
	return b.lineTask[i]
}

// Replace replaces the entire buffer contents and recomputes derived state.
// Used by the serializer to install a freshly regenerated text projection.
func (b *Buffer) Replace(content []byte) {
	b.data = append([]byte(nil), content...)
	b.Recompute()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
