// Package arena implements slot-recycling pools for Task and User records.
//
// Each pool is a single pre-grown slice of slots tagged live/dead (trash),
// addressed by a stable Handle (an index, never a pointer) so that growth
// never invalidates a reference a caller is holding — the hazard the
// teacher's byte-arena sidesteps by never handing out raw pointers across a
// resize either. A name->handle map gives O(1) lookup; map keys are owned by
// the pool and removed on Destroy.
package arena

import (
	"github.com/rs/zerolog/log"
)

// Handle is a stable index into a Pool. Handle 0 is an ordinary slot index
// (the first Create on a fresh pool returns it); Invalid marks a failed
// lookup. Use Valid to test a Handle you received from elsewhere.
type Handle int

// Invalid is returned by lookups that fail.
const Invalid Handle = -1

type slot[T any] struct {
	value   T
	name    string
	trash   bool
	visited bool
}

// Pool is a slot-recycling arena for records of type T, keyed by name.
type Pool[T any] struct {
	slots       []slot[T]
	names       map[string]Handle
	lastCreated int
	kind        string // for logging only
}

// New creates a Pool pre-grown to initialCapacity dead slots.
func New[T any](kind string, initialCapacity int) *Pool[T] {
	p := &Pool[T]{
		slots: make([]slot[T], initialCapacity),
		names: make(map[string]Handle, initialCapacity),
		kind:  kind,
	}
	for i := range p.slots {
		p.slots[i].trash = true
	}
	return p
}

// Valid reports whether h addresses a live slot.
func (p *Pool[T]) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(p.slots) && !p.slots[h].trash
}

// Get returns the handle for a live record by name.
func (p *Pool[T]) Get(name string) (Handle, bool) {
	h, ok := p.names[name]
	if !ok || !p.Valid(h) {
		return Invalid, false
	}
	return h, true
}

// Create finds-or-creates a live record under name, returning its handle and
// whether a new slot was allocated. Allocation scans forward from the
// rotating lastCreated cursor for the next dead slot; if a full revolution
// finds none, the pool grows by 1.5x (capped growth is the caller's concern;
// this pool never shrinks).
func (p *Pool[T]) Create(name string, zero T) (Handle, bool) {
	if h, ok := p.Get(name); ok {
		return h, false
	}

	h := p.allocSlot()
	p.slots[h] = slot[T]{value: zero, name: name, trash: false, visited: true}
	p.names[name] = h
	p.lastCreated = int(h)
	return h, true
}

func (p *Pool[T]) allocSlot() Handle {
	n := len(p.slots)
	if n == 0 {
		p.grow()
		n = len(p.slots)
	}
	start := p.lastCreated
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if p.slots[idx].trash {
			return Handle(idx)
		}
	}
	// Full revolution without a dead slot: grow and take the first new one.
	oldLen := n
	p.grow()
	return Handle(oldLen)
}

func (p *Pool[T]) grow() {
	oldLen := len(p.slots)
	newLen := oldLen + oldLen/2
	if newLen <= oldLen {
		newLen = oldLen + 1
	}
	grown := make([]slot[T], newLen)
	copy(grown, p.slots)
	for i := oldLen; i < newLen; i++ {
		grown[i].trash = true
	}
	p.slots = grown
	log.Debug().Str("pool", p.kind).Int("old_capacity", oldLen).Int("new_capacity", newLen).
		Msg("arena capacity exhausted, growing allocation")
}

// Destroy marks h's slot dead and removes its name entry. Callers are
// responsible for symmetric detachment from any cross-arena bags before
// calling Destroy (e.g. removing a destroyed user from every task's users
// list) — Pool only owns slot lifecycle and the name index.
func (p *Pool[T]) Destroy(h Handle) {
	if !p.Valid(h) {
		return
	}
	delete(p.names, p.slots[h].name)
	p.slots[h] = slot[T]{trash: true}
}

// At returns a pointer to h's record. The pointer must not be retained
// across any subsequent Create call on this pool, since growth reallocates
// the backing slice; always re-resolve from the Handle instead.
func (p *Pool[T]) At(h Handle) *T {
	if !p.Valid(h) {
		return nil
	}
	return &p.slots[h].value
}

// NameOf returns the name of a live handle.
func (p *Pool[T]) NameOf(h Handle) (string, bool) {
	if !p.Valid(h) {
		return "", false
	}
	return p.slots[h].name, true
}

// ResetVisited clears the editor_visited bit on every slot, live or dead.
// Called once at the start of each parse so Pass 1 can mark survivors.
func (p *Pool[T]) ResetVisited() {
	for i := range p.slots {
		p.slots[i].visited = false
	}
}

// MarkVisited sets the editor_visited bit for h.
func (p *Pool[T]) MarkVisited(h Handle) {
	if p.Valid(h) {
		p.slots[h].visited = true
	}
}

// Visited reports h's editor_visited bit.
func (p *Pool[T]) Visited(h Handle) bool {
	return p.Valid(h) && p.slots[h].visited
}

// ForEachLive calls fn for every live slot, in arena (slot-index) order.
// fn must not call Create on this pool (that would invalidate the iteration
// via growth); Destroy is safe since this pool never shrinks.
func (p *Pool[T]) ForEachLive(fn func(Handle, *T)) {
	for i := range p.slots {
		if !p.slots[i].trash {
			fn(Handle(i), &p.slots[i].value)
		}
	}
}

// Len returns the number of live slots.
func (p *Pool[T]) Len() int {
	n := 0
	for i := range p.slots {
		if !p.slots[i].trash {
			n++
		}
	}
	return n
}

// Capacity returns the total slot count (live + dead).
func (p *Pool[T]) Capacity() int {
	return len(p.slots)
}
