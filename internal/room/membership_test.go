package room

import (
	"testing"

	"collaboard/internal/geometry"
	"collaboard/internal/state"
)

func activate(t *testing.T, m *Membership) {
	t.Helper()
	if !m.BeginJoin("room-1") {
		t.Fatal("BeginJoin failed from Unjoined")
	}
	ok := m.Activate("owner-1", []state.Participant{
		{UserID: "owner-1", Nickname: "Owner"},
		{UserID: "me", Nickname: "Me"},
	})
	if !ok {
		t.Fatal("Activate failed from Joining")
	}
}

func TestJoinLifecycle(t *testing.T) {
	m := NewMembership()
	if st, _ := m.State(); st != Unjoined {
		t.Fatalf("initial state = %v, want unjoined", st)
	}

	activate(t, m)
	st, reason := m.State()
	if st != Active || reason != ReasonNone {
		t.Fatalf("state after activate = %v/%q", st, reason)
	}
	if m.OwnerID() != "owner-1" {
		t.Errorf("owner = %q, want owner-1", m.OwnerID())
	}
	owner, ok := m.Participant("owner-1")
	if !ok || !owner.IsOwner {
		t.Errorf("owner participant = %+v, ok=%v", owner, ok)
	}
	me, _ := m.Participant("me")
	if me.IsOwner {
		t.Error("non-owner flagged as owner")
	}
}

func TestJoinFailureStaysUnjoined(t *testing.T) {
	m := NewMembership()
	m.BeginJoin("room-1")
	m.Fail()

	if st, _ := m.State(); st != Unjoined {
		t.Fatalf("state after failed join = %v, want unjoined", st)
	}
	if m.RoomID() != "" {
		t.Errorf("room id survived a failed join: %q", m.RoomID())
	}
	// A fresh attempt is possible.
	if !m.BeginJoin("room-2") {
		t.Error("BeginJoin rejected after Fail")
	}
}

func TestUserJoinedDedup(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	if !m.UserJoined(state.Participant{UserID: "alice", Nickname: "Alice"}) {
		t.Fatal("first UserJoined rejected")
	}
	if m.UserJoined(state.Participant{UserID: "alice", Nickname: "Alice2"}) {
		t.Error("duplicate UserJoined accepted")
	}
	if got := len(m.Participants()); got != 3 {
		t.Errorf("participant count = %d, want 3", got)
	}
	alice, _ := m.Participant("alice")
	if alice.Nickname != "Alice" {
		t.Errorf("duplicate join overwrote nickname: %q", alice.Nickname)
	}
}

func TestUserLeftUnknownIsNoop(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	if m.UserLeft("ghost") {
		t.Error("UserLeft for unknown id returned true")
	}
	if !m.UserLeft("me") {
		t.Error("UserLeft for known id returned false")
	}
	if m.UserLeft("me") {
		t.Error("second UserLeft for same id returned true")
	}
}

func TestRoomDeletedIsTerminal(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	m.RoomDeleted()
	st, reason := m.State()
	if st != Terminated || reason != ReasonRoomDeleted {
		t.Fatalf("state = %v/%q, want terminated/roomDeleted", st, reason)
	}

	// No event may be applied after termination.
	if m.UserJoined(state.Participant{UserID: "late"}) {
		t.Error("UserJoined applied after termination")
	}
	if m.SetCursor("owner-1", geometry.Point{X: 1, Y: 1}) {
		t.Error("cursor applied after termination")
	}
	if len(m.Participants()) != 0 {
		t.Error("participant set survived termination")
	}
}

func TestRoomDeletedOverridesConcurrentLeave(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	// roomDeleted lands first, the self-initiated leave second: the
	// terminal reason must stay roomDeleted.
	m.RoomDeleted()
	m.Leave()
	if _, reason := m.State(); reason != ReasonRoomDeleted {
		t.Fatalf("reason = %q, want roomDeleted", reason)
	}
}

func TestLeave(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	m.Leave()
	st, reason := m.State()
	if st != Terminated || reason != ReasonLeft {
		t.Fatalf("state = %v/%q, want terminated/left", st, reason)
	}
}

func TestKick(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	m.Kick()
	if _, reason := m.State(); reason != ReasonKicked {
		t.Fatalf("reason = %q, want kicked", reason)
	}
}

func TestSetCursor(t *testing.T) {
	m := NewMembership()
	activate(t, m)

	if !m.SetCursor("owner-1", geometry.Point{X: 4, Y: 2}) {
		t.Fatal("SetCursor rejected for known participant")
	}
	owner, _ := m.Participant("owner-1")
	if owner.Cursor == nil || *owner.Cursor != (geometry.Point{X: 4, Y: 2}) {
		t.Errorf("cursor = %v, want (4,2)", owner.Cursor)
	}

	if m.SetCursor("ghost", geometry.Point{X: 0, Y: 0}) {
		t.Error("SetCursor accepted for unknown sender")
	}
}
