// Package cursor rate-limits the cursor broadcast path in both
// directions: local pointer moves collapse to one network send per
// frame, remote cursor events collapse to one merged state update per
// frame. Latest position always wins.
package cursor

import (
	"collaboard/internal/frame"
	"collaboard/internal/geometry"
)

// Update is one remote participant's latest cursor position.
type Update struct {
	Nickname string
	Point    geometry.Point
}

// Outbound collapses a burst of local pointer moves into at most one
// send per frame tick.
type Outbound struct {
	c *frame.Coalescer[geometry.Point]
}

// NewOutbound wires the coalescer to the network send function. send
// runs on the scheduler's tick with the most recent recorded point.
func NewOutbound(sched frame.Scheduler, send func(geometry.Point)) *Outbound {
	return &Outbound{c: frame.NewCoalescer(sched, send)}
}

// Move records a local pointer position, overwriting any not-yet-sent
// one.
func (o *Outbound) Move(p geometry.Point) {
	o.c.Set(p)
}

// Close cancels any scheduled send.
func (o *Outbound) Close() {
	o.c.Close()
}

// Inbound collapses remote cursor events into one merged update per
// frame, keyed per sender. Self-originated events are skipped: with
// at-least-once delivery an echo of our own cursor is legal and must
// not show up as a remote participant.
type Inbound struct {
	selfID string
	b      *frame.Batch[string, Update]
}

// NewInbound wires the batch to apply, which receives the merged
// senderID→update map once per tick.
func NewInbound(sched frame.Scheduler, selfID string, apply func(map[string]Update)) *Inbound {
	return &Inbound{selfID: selfID, b: frame.NewBatch(sched, apply)}
}

// Receive stashes a remote sender's cursor position for the next flush.
func (i *Inbound) Receive(senderID, nickname string, p geometry.Point) {
	if senderID == i.selfID {
		return
	}
	i.b.Put(senderID, Update{Nickname: nickname, Point: p})
}

// Close cancels any scheduled flush and drops pending updates.
func (i *Inbound) Close() {
	i.b.Close()
}
