package state

import "collaboard/internal/geometry"

// EraserResolver picks the stroke an eraser probe should delete. A
// stroke matches when any of its points lies within tolerance of the
// probe; among matches the first in store iteration order wins, which
// is deterministic per probe. The tolerance is the currently configured
// eraser radius, not a property of the candidate stroke.
type EraserResolver struct {
	store *StrokeStore
}

func NewEraserResolver(store *StrokeStore) *EraserResolver {
	return &EraserResolver{store: store}
}

// Resolve returns the id of the stroke to delete, if any. A miss is a
// plain no-match, not an error: the eraser is a continuous drag that
// probes the same area repeatedly.
func (e *EraserResolver) Resolve(probe geometry.Point, tolerance float64) (string, bool) {
	for _, st := range e.store.Snapshot() {
		if geometry.NearAny(probe, st.Points, tolerance) {
			return st.ID, true
		}
	}
	return "", false
}
