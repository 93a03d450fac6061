package state

import (
	"testing"

	"collaboard/internal/geometry"
)

func mkStroke(id string, pts ...geometry.Point) Stroke {
	return Stroke{ID: id, Kind: KindLine, Points: pts, Color: "#000000", Width: 2, AuthorID: "user-a"}
}

func ids(strokes []Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID
	}
	return out
}

func TestAppendKeepsArrivalOrder(t *testing.T) {
	s := NewStrokeStore()
	s.Append(mkStroke("a"))
	s.Append(mkStroke("b"))
	s.Append(mkStroke("c"))

	got := ids(s.Snapshot())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot order = %v, want %v", got, want)
		}
	}
}

func TestAppendIsIdempotent(t *testing.T) {
	s := NewStrokeStore()
	first := mkStroke("a", geometry.Point{X: 1, Y: 1})
	dup := mkStroke("a", geometry.Point{X: 9, Y: 9})

	if !s.Append(first) {
		t.Fatal("first Append returned false")
	}
	if s.Append(dup) {
		t.Error("duplicate Append returned true")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	// Original content wins over the duplicate.
	if got := s.Snapshot()[0].Points[0]; got != (geometry.Point{X: 1, Y: 1}) {
		t.Errorf("duplicate overwrote stored stroke: %v", got)
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := NewStrokeStore()
	s.Append(mkStroke("a"))

	if s.Remove("nope") {
		t.Error("Remove of unknown id returned true")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestRemoveThenDuplicateRemove(t *testing.T) {
	s := NewStrokeStore()
	s.Append(mkStroke("a"))
	s.Append(mkStroke("b"))

	if !s.Remove("a") {
		t.Fatal("Remove returned false for present id")
	}
	if s.Remove("a") {
		t.Error("second Remove of same id returned true")
	}
	if s.Contains("a") || !s.Contains("b") {
		t.Errorf("store content wrong after remove: %v", ids(s.Snapshot()))
	}
}

// Replaying the same append/remove events in different interleavings
// must converge to the same set, as long as each append precedes its
// own remove.
func TestInterleavingsConverge(t *testing.T) {
	type op struct {
		remove bool
		id     string
	}
	schedules := [][]op{
		{{false, "a"}, {false, "b"}, {true, "a"}, {false, "c"}},
		{{false, "a"}, {true, "a"}, {false, "c"}, {false, "b"}},
		{{false, "a"}, {false, "a"}, {false, "b"}, {true, "a"}, {true, "a"}, {false, "c"}},
		{{false, "b"}, {false, "a"}, {false, "c"}, {true, "a"}},
	}

	for i, sched := range schedules {
		s := NewStrokeStore()
		for _, o := range sched {
			if o.remove {
				s.Remove(o.id)
			} else {
				s.Append(mkStroke(o.id))
			}
		}
		got := map[string]bool{}
		for _, id := range ids(s.Snapshot()) {
			got[id] = true
		}
		if len(got) != 2 || !got["b"] || !got["c"] {
			t.Errorf("schedule %d converged to %v, want {b c}", i, got)
		}
	}
}

func TestReplaceAllDropsLocalState(t *testing.T) {
	s := NewStrokeStore()
	s.Append(mkStroke("local-1"))
	s.Append(mkStroke("local-2"))

	snapshot := []Stroke{mkStroke("r1"), mkStroke("r2"), mkStroke("r3")}
	s.ReplaceAll(snapshot)

	got := ids(s.Snapshot())
	want := []string{"r1", "r2", "r3"}
	if len(got) != len(want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestNewStrokeIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewStrokeID("user-x")
		if seen[id] {
			t.Fatalf("duplicate stroke id %q", id)
		}
		seen[id] = true
	}
}
