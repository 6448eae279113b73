package arena

import "testing"

func TestCreateFindsExisting(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 4)

	h1, created := p.Create("alice", 1)
	if !created {
		t.Fatalf("expected first Create to allocate a new slot")
	}
	h2, created := p.Create("alice", 2)
	if created {
		t.Errorf("expected second Create of the same name to find the existing slot")
	}
	if h1 != h2 {
		t.Errorf("Create(%q) returned different handles: %d != %d", "alice", h1, h2)
	}
	if got := *p.At(h1); got != 1 {
		t.Errorf("At(h1) = %d, want 1 (second Create must not overwrite)", got)
	}
}

func TestDestroyAndReallocate(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 2)

	h, _ := p.Create("bob", 42)
	p.Destroy(h)

	if p.Valid(h) {
		t.Errorf("handle valid after Destroy")
	}
	if _, ok := p.Get("bob"); ok {
		t.Errorf("name index still resolves after Destroy")
	}

	h2, created := p.Create("carol", 7)
	if !created {
		t.Fatalf("expected Create after Destroy to allocate")
	}
	if !p.Valid(h2) {
		t.Errorf("newly created handle is not valid")
	}
}

func TestGrowPreservesLiveSlots(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 2)

	handles := make(map[string]Handle)
	for i := 0; i < 10; i++ {
		name := string(rune('a' + i))
		h, _ := p.Create(name, i)
		handles[name] = h
	}

	for name, h := range handles {
		if !p.Valid(h) {
			t.Errorf("handle for %q invalid after growth", name)
			continue
		}
		got, ok := p.NameOf(h)
		if !ok || got != name {
			t.Errorf("NameOf(%d) = %q, %v, want %q, true", h, got, ok, name)
		}
	}
	if p.Len() != 10 {
		t.Errorf("Len() = %d, want 10", p.Len())
	}
}

func TestVisitedResetsEveryParse(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 4)
	h, _ := p.Create("alice", 0)

	if !p.Visited(h) {
		t.Errorf("a freshly created slot should start visited")
	}

	p.ResetVisited()
	if p.Visited(h) {
		t.Errorf("Visited after ResetVisited = true, want false")
	}

	p.MarkVisited(h)
	if !p.Visited(h) {
		t.Errorf("Visited after MarkVisited = false, want true")
	}
}

func TestForEachLiveSkipsTrash(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 4)
	alive, _ := p.Create("alive", 1)
	dead, _ := p.Create("dead", 2)
	p.Destroy(dead)

	seen := map[Handle]bool{}
	p.ForEachLive(func(h Handle, v *int) { seen[h] = true })

	if !seen[alive] {
		t.Errorf("ForEachLive did not visit the live slot")
	}
	if seen[dead] {
		t.Errorf("ForEachLive visited a destroyed slot")
	}
	if len(seen) != 1 {
		t.Errorf("ForEachLive visited %d slots, want 1", len(seen))
	}
}

func TestInvalidHandle(t *testing.T) {
	t.Parallel()
	p := New[int]("test", 4)

	if p.Valid(Invalid) {
		t.Errorf("Invalid handle reported valid")
	}
	if p.At(Invalid) != nil {
		t.Errorf("At(Invalid) = non-nil, want nil")
	}
	if p.Valid(Handle(999)) {
		t.Errorf("out-of-range handle reported valid")
	}
}
