package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"collaboard/internal/state"
)

// Link is the external socket the adapter writes envelopes to. The
// implementation must deliver inbound envelopes to Dispatch, preserving
// per-sender order; nothing stronger is assumed.
type Link interface {
	Send(Envelope) error
	Close() error
}

// Handler receives decoded server broadcasts. The synchronization
// controller implements it.
type Handler interface {
	HandleUserJoined(p state.Participant)
	HandleUserLeft(userID string)
	HandleRoomDeleted()
	HandleCursorUpdate(u CursorUpdate)
	HandleStrokeDrawn(st state.Stroke)
	HandleStrokeDeleted(strokeID string)
}

// ErrNoAck is returned when the link drops before a create/join
// response arrives.
var ErrNoAck = errors.New("connection closed before acknowledgment")

// Adapter maps core operations to named channel messages and inbound
// envelopes back to Handler calls. Create/join are request/ack: the
// caller blocks until the matching ack envelope or context expiry. Only
// one create/join may be in flight at a time, which the single-room
// membership machine already guarantees.
type Adapter struct {
	link Link

	mu      sync.Mutex
	handler Handler
	waiters map[string]chan Ack
}

func NewAdapter(link Link) *Adapter {
	return &Adapter{
		link:    link,
		waiters: make(map[string]chan Ack),
	}
}

// Bind attaches the broadcast handler. The controller and the adapter
// reference each other, so the handler arrives after construction;
// broadcasts before Bind are dropped.
func (a *Adapter) Bind(h Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

func (a *Adapter) boundHandler() Handler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handler
}

// CreateRoom requests a new room; the caller becomes owner. The
// returned snapshot is the authoritative starting state.
func (a *Adapter) CreateRoom(ctx context.Context, roomID, userID, nickname string) (*RoomSnapshot, error) {
	return a.request(ctx, EvCreateRoom, EvCreateRoomAck, RoomRequest{RoomID: roomID, UserID: userID, Nickname: nickname})
}

// JoinRoom requests membership in an existing room.
func (a *Adapter) JoinRoom(ctx context.Context, roomID, userID, nickname string) (*RoomSnapshot, error) {
	return a.request(ctx, EvJoinRoom, EvJoinRoomAck, RoomRequest{RoomID: roomID, UserID: userID, Nickname: nickname})
}

func (a *Adapter) request(ctx context.Context, event, ackEvent string, req RoomRequest) (*RoomSnapshot, error) {
	ch := make(chan Ack, 1)
	a.mu.Lock()
	a.waiters[ackEvent] = ch
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.waiters, ackEvent)
		a.mu.Unlock()
	}()

	env, err := NewEnvelope(event, req)
	if err != nil {
		return nil, err
	}
	if err := a.link.Send(env); err != nil {
		return nil, fmt.Errorf("send %s: %w", event, err)
	}

	select {
	case ack := <-ch:
		if !ack.Success {
			if ack.Error == "" {
				ack.Error = "request rejected"
			}
			return nil, errors.New(ack.Error)
		}
		if ack.Data == nil {
			return nil, fmt.Errorf("%s: acknowledged without room data", event)
		}
		return ack.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LeaveRoom notifies the server of a voluntary departure. Fire and
// forget; there is no ack.
func (a *Adapter) LeaveRoom(roomID, userID string) error {
	return a.send(EvLeaveRoom, LeaveRequest{RoomID: roomID, UserID: userID})
}

// SendCursor transmits one coalesced cursor position.
func (a *Adapter) SendCursor(m CursorMove) error {
	return a.send(EvCursorMove, m)
}

// SendStroke transmits one completed stroke.
func (a *Adapter) SendStroke(roomID string, st state.Stroke) error {
	return a.send(EvDraw, Draw{RoomID: roomID, Stroke: st})
}

// SendStrokeDelete transmits an eraser deletion. Deletes are idempotent
// on every replica, so resending is harmless.
func (a *Adapter) SendStrokeDelete(roomID, strokeID, userID string) error {
	return a.send(EvStrokeDelete, StrokeDelete{RoomID: roomID, StrokeID: strokeID, UserID: userID})
}

func (a *Adapter) send(event string, payload any) error {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	if err := a.link.Send(env); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

// Dispatch routes one inbound envelope. Malformed payloads and unknown
// events are logged and dropped; the channel is at-least-once and
// unordered, so anomalies here are expected, never fatal.
func (a *Adapter) Dispatch(env Envelope) {
	h := a.boundHandler()
	switch env.Event {
	case EvCreateRoomAck, EvJoinRoomAck:
		var ack Ack
		if !a.decode(env, &ack) {
			return
		}
		a.mu.Lock()
		ch := a.waiters[env.Event]
		a.mu.Unlock()
		if ch != nil {
			select {
			case ch <- ack:
			default: // duplicate ack, drop
			}
		}
	case EvUserJoined:
		var p state.Participant
		if h != nil && a.decode(env, &p) {
			h.HandleUserJoined(p)
		}
	case EvUserLeft:
		var u UserLeft
		if h != nil && a.decode(env, &u) {
			h.HandleUserLeft(u.UserID)
		}
	case EvRoomDeleted:
		if h != nil {
			h.HandleRoomDeleted()
		}
	case EvCursorUpdate:
		var u CursorUpdate
		if h != nil && a.decode(env, &u) {
			h.HandleCursorUpdate(u)
		}
	case EvStrokeDrawn:
		var st state.Stroke
		if h != nil && a.decode(env, &st) {
			h.HandleStrokeDrawn(st)
		}
	case EvStrokeDeleted:
		var d StrokeDeleted
		if h != nil && a.decode(env, &d) {
			h.HandleStrokeDeleted(d.StrokeID)
		}
	default:
		log.Printf("[net] unknown event %q, dropping", env.Event)
	}
}

func (a *Adapter) decode(env Envelope, dst any) bool {
	if err := json.Unmarshal(env.Data, dst); err != nil {
		log.Printf("[net] bad %s payload: %v", env.Event, err)
		return false
	}
	return true
}

// Fail wakes any pending create/join waiter after the link dies.
func (a *Adapter) Fail() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ev, ch := range a.waiters {
		select {
		case ch <- Ack{Success: false, Error: ErrNoAck.Error()}:
		default:
		}
		delete(a.waiters, ev)
	}
}

// Close tears down the underlying link.
func (a *Adapter) Close() error {
	a.Fail()
	return a.link.Close()
}
