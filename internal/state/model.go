package state

import (
	"time"

	"collaboard/internal/geometry"
)

// StrokeKind is the shape family of a stroke. Only freehand lines exist
// today; the enum leaves room for rects/circles later.
type StrokeKind string

const (
	KindLine StrokeKind = "line"
)

// Stroke is one completed drawing gesture. Strokes are immutable once
// completed: they are transmitted exactly once and removed only by an
// explicit deletion, never edited in place.
type Stroke struct {
	ID        string           `json:"id"`
	Kind      StrokeKind       `json:"type"`
	Points    []geometry.Point `json:"points"`
	Color     string           `json:"color"`
	Width     float64          `json:"width"`
	AuthorID  string           `json:"userId"`
	CreatedAt time.Time        `json:"timestamp"`
}

// Participant is one member of the active room. UserID is the join key;
// nicknames are display-only and may collide.
type Participant struct {
	UserID   string          `json:"userId"`
	Nickname string          `json:"nickname"`
	IsOwner  bool            `json:"isOwner"`
	Cursor   *geometry.Point `json:"cursor,omitempty"`
}
