package registry

import "testing"

func TestNextIDIsMonotonicFromOne(t *testing.T) {
	r := New()

	for want := int64(1); want <= 5; want++ {
		if got := r.NextID(); got != want {
			t.Fatalf("NextID = %d, want %d", got, want)
		}
	}

	// Removal never frees an id for reuse.
	r.Create(5, 1, "alice", "conn-a", 7)
	r.Remove(5)
	if got := r.NextID(); got != 6 {
		t.Fatalf("NextID after remove = %d, want 6", got)
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	r := New()
	r.Create(5, 42, "alice", "conn-a", 7)

	room := r.Get(5)
	if room == nil {
		t.Fatalf("expected room 5")
	}
	if room.ID != 5 || room.Channel != "room-5" {
		t.Fatalf("got id=%d channel=%q, want id=5 channel=room-5", room.ID, room.Channel)
	}
	if room.HostUserID != 42 || room.HostUsername != "alice" || room.HostConnID != "conn-a" || room.DeckID != 7 {
		t.Fatalf("host fields not preserved: %+v", room)
	}

	if r.Get(99) != nil {
		t.Fatalf("unknown id must return nil")
	}
}

func TestListIsIdempotent(t *testing.T) {
	r := New()
	r.Create(1, 1, "alice", "conn-a", 7)
	r.Create(2, 2, "bob", "conn-b", 8)

	first := r.List()
	second := r.List()
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d and %d entries, want 2 and 2", len(first), len(second))
	}

	seen := map[int64]Summary{}
	for _, s := range first {
		seen[s.ID] = s
	}
	for _, s := range second {
		if seen[s.ID] != s {
			t.Fatalf("lists disagree on room %d", s.ID)
		}
	}
}

func TestRemove(t *testing.T) {
	r := New()
	r.Create(1, 1, "alice", "conn-a", 7)
	r.Remove(1)

	if r.Get(1) != nil {
		t.Fatalf("room should be gone")
	}
	if len(r.List()) != 0 {
		t.Fatalf("list should be empty")
	}
}

func TestRemoveByHost(t *testing.T) {
	r := New()
	r.Create(1, 1, "alice", "conn-a", 7)
	r.Create(2, 2, "bob", "conn-b", 8)

	if !r.RemoveByHost("conn-a") {
		t.Fatalf("expected a removal")
	}
	if r.Get(1) != nil || r.Get(2) == nil {
		t.Fatalf("only alice's room should be removed")
	}
	if r.RemoveByHost("conn-a") {
		t.Fatalf("second removal should be a no-op")
	}
}
