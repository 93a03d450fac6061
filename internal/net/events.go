// Package net maps the synchronization core's events onto named channel
// messages. The names are the room-scoped wire vocabulary of the
// Collaboard protocol; the socket itself is pluggable behind the Link
// interface.
package net

import (
	"encoding/json"

	"collaboard/internal/geometry"
	"collaboard/internal/state"
)

// Client-to-server events.
const (
	EvCreateRoom   = "createRoom"
	EvJoinRoom     = "joinRoom"
	EvLeaveRoom    = "leaveRoom"
	EvCursorMove   = "cursorMove"
	EvDraw         = "draw"
	EvStrokeDelete = "strokeDelete"
)

// Server-to-client events.
const (
	EvCreateRoomAck = "createRoomAck"
	EvJoinRoomAck   = "joinRoomAck"
	EvUserJoined    = "userJoined"
	EvUserLeft      = "userLeft"
	EvRoomDeleted   = "roomDeleted"
	EvCursorUpdate  = "cursorUpdate"
	EvStrokeDrawn   = "strokeDrawn"
	EvStrokeDeleted = "strokeDeleted"
)

// Envelope is the wire frame: an event name plus its JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an Envelope for event.
func NewEnvelope(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

// RoomRequest asks the server to create or join a room.
type RoomRequest struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

// LeaveRequest announces a voluntary departure.
type LeaveRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// RoomSnapshot is the authoritative room state handed to a client on a
// successful create or join.
type RoomSnapshot struct {
	Owner   state.Participant   `json:"owner"`
	Users   []state.Participant `json:"users"`
	Strokes []state.Stroke      `json:"strokes"`
}

// Ack is the response to a create/join request. On failure Error
// carries the server's reason string, e.g. "room not found".
type Ack struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Data    *RoomSnapshot `json:"data,omitempty"`
}

// CursorMove is the outbound rate-limited cursor position.
type CursorMove struct {
	RoomID   string         `json:"roomId"`
	UserID   string         `json:"userId"`
	Nickname string         `json:"nickname"`
	Point    geometry.Point `json:"point"`
}

// Draw carries one completed stroke.
type Draw struct {
	RoomID string       `json:"roomId"`
	Stroke state.Stroke `json:"stroke"`
}

// StrokeDelete is an eraser deletion intent.
type StrokeDelete struct {
	RoomID   string `json:"roomId"`
	StrokeID string `json:"strokeId"`
	UserID   string `json:"userId"`
}

// CursorUpdate is a relayed remote cursor position.
type CursorUpdate struct {
	UserID   string         `json:"userId"`
	Nickname string         `json:"nickname"`
	Point    geometry.Point `json:"point"`
}

// UserLeft announces a remote participant's departure.
type UserLeft struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

// StrokeDeleted is a relayed deletion.
type StrokeDeleted struct {
	StrokeID string `json:"strokeId"`
}
