package state

import (
	"log"
	"sync"
)

// StrokeStore holds the completed strokes of the active room in arrival
// order. Render order is arrival order: later-arriving strokes draw on
// top. Appends and removes are idempotent because the channel delivers
// at-least-once with no cross-sender ordering, so duplicates and
// delete-before-create are expected, not errors.
//
// In-progress strokes never enter the store; the controller tracks the
// path being drawn and merges it into the view only while drawing.
type StrokeStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Stroke
}

func NewStrokeStore() *StrokeStore {
	return &StrokeStore{byID: make(map[string]Stroke)}
}

// Append adds a completed stroke. A stroke whose id is already present
// is silently ignored, guarding against duplicate delivery.
func (s *StrokeStore) Append(st Stroke) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[st.ID]; exists {
		log.Printf("[store] stroke %s already present, ignoring", st.ID)
		return false
	}
	s.byID[st.ID] = st
	s.order = append(s.order, st.ID)
	return true
}

// Remove deletes a stroke by id. Removing an unknown id is a no-op,
// tolerating duplicate or out-of-order deletes.
func (s *StrokeStore) Remove(strokeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[strokeID]; !exists {
		return false
	}
	delete(s.byID, strokeID)
	for i, id := range s.order {
		if id == strokeID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// ReplaceAll discards local content and adopts the given strokes in the
// given order. Used only when taking over the authoritative snapshot on
// room join.
func (s *StrokeStore) ReplaceAll(strokes []Stroke) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]Stroke, len(strokes))
	s.order = s.order[:0]
	for _, st := range strokes {
		if _, exists := s.byID[st.ID]; exists {
			continue
		}
		s.byID[st.ID] = st
		s.order = append(s.order, st.ID)
	}
	log.Printf("[store] adopted snapshot of %d strokes", len(s.order))
}

// Snapshot returns the strokes in render order.
func (s *StrokeStore) Snapshot() []Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stroke, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Contains reports whether a stroke id is present.
func (s *StrokeStore) Contains(strokeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[strokeID]
	return ok
}

// Len returns the number of stored strokes.
func (s *StrokeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
