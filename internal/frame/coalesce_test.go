package frame

import (
	"testing"
	"time"
)

func TestCoalescerEmitsLastValueOnce(t *testing.T) {
	sched := NewManualScheduler()
	var got []int
	c := NewCoalescer(sched, func(v int) { got = append(got, v) })

	c.Set(1)
	c.Set(2)
	c.Set(3)
	if len(got) != 0 {
		t.Fatalf("emitted before tick: %v", got)
	}

	sched.Fire()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("after tick got %v, want [3]", got)
	}
}

func TestCoalescerRearmsAfterFlush(t *testing.T) {
	sched := NewManualScheduler()
	var got []int
	c := NewCoalescer(sched, func(v int) { got = append(got, v) })

	c.Set(1)
	sched.Fire()
	c.Set(2)
	c.Set(9)
	sched.Fire()

	if len(got) != 2 || got[0] != 1 || got[1] != 9 {
		t.Fatalf("got %v, want [1 9]", got)
	}
}

func TestCoalescerIdleTickEmitsNothing(t *testing.T) {
	sched := NewManualScheduler()
	calls := 0
	c := NewCoalescer(sched, func(int) { calls++ })

	c.Set(1)
	sched.Fire()
	sched.Fire() // nothing pending
	if calls != 1 {
		t.Fatalf("emit called %d times, want 1", calls)
	}
}

func TestCoalescerCloseCancelsPending(t *testing.T) {
	sched := NewManualScheduler()
	calls := 0
	c := NewCoalescer(sched, func(int) { calls++ })

	c.Set(1)
	c.Close()
	sched.Fire()
	if calls != 0 {
		t.Fatal("emit fired after Close")
	}
	c.Set(2)
	sched.Fire()
	if calls != 0 {
		t.Fatal("Set after Close scheduled an emission")
	}
}

func TestBatchMergesSendersPerTick(t *testing.T) {
	sched := NewManualScheduler()
	var flushes []map[string]int
	b := NewBatch(sched, func(m map[string]int) { flushes = append(flushes, m) })

	b.Put("alice", 1)
	b.Put("bob", 2)
	b.Put("alice", 5) // newest per key wins
	sched.Fire()

	if len(flushes) != 1 {
		t.Fatalf("got %d flushes, want 1", len(flushes))
	}
	m := flushes[0]
	if len(m) != 2 || m["alice"] != 5 || m["bob"] != 2 {
		t.Fatalf("merged batch = %v, want map[alice:5 bob:2]", m)
	}
}

func TestBatchCloseDropsPending(t *testing.T) {
	sched := NewManualScheduler()
	calls := 0
	b := NewBatch(sched, func(map[string]int) { calls++ })

	b.Put("alice", 1)
	b.Close()
	sched.Fire()
	if calls != 0 {
		t.Fatal("apply fired after Close")
	}
}

func TestIntervalSchedulerFiresOnce(t *testing.T) {
	s := NewIntervalScheduler(time.Millisecond)
	done := make(chan struct{})
	s.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}
}

func TestIntervalSchedulerCancel(t *testing.T) {
	s := NewIntervalScheduler(10 * time.Millisecond)
	fired := make(chan struct{}, 1)
	cancel := s.Schedule(func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(50 * time.Millisecond):
	}
}
