// Package frame provides the display-refresh scheduling primitive the
// coalescers hang off: schedule-once callbacks on the next tick, with
// cancellation. In a non-UI host the "display refresh" is a fixed
// interval timer.
package frame

import (
	"sync"
	"time"
)

// DefaultInterval approximates one display refresh at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// CancelFunc cancels a scheduled callback. Calling it after the
// callback fired is a no-op.
type CancelFunc func()

// Scheduler runs a callback once on the next tick.
type Scheduler interface {
	Schedule(fn func()) CancelFunc
}

// IntervalScheduler fires callbacks after a fixed interval.
type IntervalScheduler struct {
	Interval time.Duration
}

func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IntervalScheduler{Interval: interval}
}

func (s *IntervalScheduler) Schedule(fn func()) CancelFunc {
	t := time.AfterFunc(s.Interval, fn)
	return func() { t.Stop() }
}

// ManualScheduler is a test double: callbacks fire only when Fire is
// called, so tests control tick boundaries deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualEntry
}

type manualEntry struct {
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &manualEntry{fn: fn}
	s.pending = append(s.pending, e)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e.cancelled = true
	}
}

// Fire runs every callback scheduled before this tick. Callbacks
// scheduled from within a firing callback wait for the next Fire.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range batch {
		if !e.cancelled {
			e.fn()
		}
	}
}

// Pending returns the number of not-yet-fired callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.pending {
		if !e.cancelled {
			n++
		}
	}
	return n
}
