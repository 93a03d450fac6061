// Package room tracks the participant set, owner identity and the room
// lifecycle on the client. A room is Active until this client leaves or
// the owner departs; owner departure tears the room down for everyone.
package room

import (
	"log"
	"sync"

	"collaboard/internal/geometry"
	"collaboard/internal/state"
)

// State is the membership lifecycle position.
type State int

const (
	Unjoined State = iota
	Joining
	Active
	Terminated
)

func (s State) String() string {
	switch s {
	case Unjoined:
		return "unjoined"
	case Joining:
		return "joining"
	case Active:
		return "active"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Reason says why a membership reached Terminated.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonLeft        Reason = "left"
	ReasonRoomDeleted Reason = "roomDeleted"
	ReasonKicked      Reason = "kicked"
)

// Membership is the client-side room membership state machine.
// Transitions: Unjoined → Joining → Active → Terminated. Terminated is
// terminal: every later membership or drawing event must be dropped.
type Membership struct {
	mu           sync.RWMutex
	st           State
	reason       Reason
	roomID       string
	ownerID      string
	participants map[string]state.Participant
}

func NewMembership() *Membership {
	return &Membership{participants: make(map[string]state.Participant)}
}

// State returns the current lifecycle state and termination reason.
func (m *Membership) State() (State, Reason) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st, m.reason
}

// RoomID returns the active room's id, empty until Activate.
func (m *Membership) RoomID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roomID
}

// OwnerID returns the room owner's user id.
func (m *Membership) OwnerID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ownerID
}

// BeginJoin moves Unjoined → Joining while a create/join request is in
// flight.
func (m *Membership) BeginJoin(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Unjoined {
		return false
	}
	m.st = Joining
	m.roomID = roomID
	return true
}

// Fail reverts Joining → Unjoined after a rejected create/join request.
func (m *Membership) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Joining {
		return
	}
	m.st = Unjoined
	m.roomID = ""
}

// Activate adopts the authoritative participant snapshot handed over on
// join-acknowledgment and moves to Active. Exactly one participant is
// the owner.
func (m *Membership) Activate(ownerID string, participants []state.Participant) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Joining {
		return false
	}
	m.st = Active
	m.ownerID = ownerID
	m.participants = make(map[string]state.Participant, len(participants))
	for _, p := range participants {
		p.IsOwner = p.UserID == ownerID
		m.participants[p.UserID] = p
	}
	log.Printf("[room] joined %s with %d participants, owner %s", m.roomID, len(m.participants), ownerID)
	return true
}

// UserJoined adds a remote participant. A duplicate join broadcast for
// a known user id is a no-op rather than a second entry.
func (m *Membership) UserJoined(p state.Participant) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Active {
		return false
	}
	if _, exists := m.participants[p.UserID]; exists {
		return false
	}
	p.IsOwner = p.UserID == m.ownerID
	m.participants[p.UserID] = p
	return true
}

// UserLeft removes a remote participant; unknown ids are ignored.
func (m *Membership) UserLeft(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Active {
		return false
	}
	if _, exists := m.participants[userID]; !exists {
		return false
	}
	delete(m.participants, userID)
	return true
}

// SetCursor stores the latest cursor point for a participant. Cursor
// events for senders we have no membership record of are absorbed as
// no-ops; at-least-once delivery lets a cursor event outrun or outlive
// its sender's membership.
func (m *Membership) SetCursor(userID string, p geometry.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st != Active {
		return false
	}
	member, exists := m.participants[userID]
	if !exists {
		return false
	}
	cur := p
	member.Cursor = &cur
	m.participants[userID] = member
	return true
}

// RoomDeleted fires when the server detects the owner's departure. It
// is unconditional and terminal, even when a self-initiated leave is in
// flight.
func (m *Membership) RoomDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == Terminated {
		return
	}
	m.st = Terminated
	m.reason = ReasonRoomDeleted
	m.participants = make(map[string]state.Participant)
	log.Printf("[room] %s deleted by owner departure", m.roomID)
}

// Leave records a voluntary departure. A room already terminated (for
// example by a concurrent roomDeleted) keeps its original reason.
func (m *Membership) Leave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == Terminated {
		return
	}
	m.st = Terminated
	m.reason = ReasonLeft
	m.participants = make(map[string]state.Participant)
}

// Kick terminates the membership on a server-side eviction. No wire
// event maps to it today; the reason exists for forward compatibility.
func (m *Membership) Kick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == Terminated {
		return
	}
	m.st = Terminated
	m.reason = ReasonKicked
	m.participants = make(map[string]state.Participant)
}

// Participants returns a copy of the current participant set.
func (m *Membership) Participants() []state.Participant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]state.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, p)
	}
	return out
}

// Participant looks up one member by user id.
func (m *Membership) Participant(userID string) (state.Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.participants[userID]
	return p, ok
}
