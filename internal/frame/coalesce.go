package frame

import "sync"

// Coalescer collapses a burst of values into at most one emission per
// tick, newest value winning. It is the Idle/FramePending state
// machine: the first Set after an emission schedules a flush, later
// Sets only overwrite the pending value.
type Coalescer[T any] struct {
	mu      sync.Mutex
	sched   Scheduler
	emit    func(T)
	pending T
	armed   bool
	closed  bool
	cancel  CancelFunc
}

func NewCoalescer[T any](sched Scheduler, emit func(T)) *Coalescer[T] {
	return &Coalescer[T]{sched: sched, emit: emit}
}

// Set records v as the value to emit on the next tick, overwriting any
// not-yet-emitted value.
func (c *Coalescer[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = v
	if !c.armed {
		c.armed = true
		c.cancel = c.sched.Schedule(c.flush)
	}
}

func (c *Coalescer[T]) flush() {
	c.mu.Lock()
	if c.closed || !c.armed {
		c.mu.Unlock()
		return
	}
	v := c.pending
	var zero T
	c.pending = zero
	c.armed = false
	c.mu.Unlock()

	c.emit(v)
}

// Close cancels any scheduled emission. The coalescer drops all values
// afterwards; a flush must never fire into a torn-down session.
func (c *Coalescer[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.armed = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Batch collapses keyed values into one merged flush per tick; within a
// tick the newest value per key wins.
type Batch[K comparable, V any] struct {
	mu      sync.Mutex
	sched   Scheduler
	apply   func(map[K]V)
	pending map[K]V
	armed   bool
	closed  bool
	cancel  CancelFunc
}

func NewBatch[K comparable, V any](sched Scheduler, apply func(map[K]V)) *Batch[K, V] {
	return &Batch[K, V]{sched: sched, apply: apply, pending: make(map[K]V)}
}

// Put stashes v under key for the next flush.
func (b *Batch[K, V]) Put(key K, v V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.pending[key] = v
	if !b.armed {
		b.armed = true
		b.cancel = b.sched.Schedule(b.flush)
	}
}

func (b *Batch[K, V]) flush() {
	b.mu.Lock()
	if b.closed || !b.armed {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = make(map[K]V)
	b.armed = false
	b.mu.Unlock()

	b.apply(batch)
}

// Close cancels any scheduled flush and drops the pending batch.
func (b *Batch[K, V]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.armed = false
	b.pending = make(map[K]V)
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}
