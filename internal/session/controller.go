// Package session orchestrates the synchronization core: local gestures
// go through optimistic apply then out to the transport, remote events
// merge into the replicated room state, and the renderer consumes one
// merged view. One Controller is one room session; after the room
// terminates the controller only serves its final view.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"collaboard/internal/cursor"
	"collaboard/internal/frame"
	"collaboard/internal/geometry"
	"collaboard/internal/net"
	"collaboard/internal/room"
	"collaboard/internal/state"
)

// ErrNotActive rejects draw/erase/cursor input while the client is not
// in an active room. A precondition violation, never a network effect.
var ErrNotActive = errors.New("not in an active room")

// Transport is the outbound surface the controller drives. *net.Adapter
// implements it.
type Transport interface {
	CreateRoom(ctx context.Context, roomID, userID, nickname string) (*net.RoomSnapshot, error)
	JoinRoom(ctx context.Context, roomID, userID, nickname string) (*net.RoomSnapshot, error)
	LeaveRoom(roomID, userID string) error
	SendCursor(m net.CursorMove) error
	SendStroke(roomID string, st state.Stroke) error
	SendStrokeDelete(roomID, strokeID, userID string) error
}

// Cursor is a remote participant's latest pointer position.
type Cursor struct {
	Nickname string
	Point    geometry.Point
}

// View is the merged state handed to the renderer. All slices and maps
// are copies; the renderer feeds nothing back.
type View struct {
	RoomID           string
	RoomState        room.State
	Reason           room.Reason
	CompletedStrokes []state.Stroke
	InProgress       *state.Stroke
	RemoteCursors    map[string]Cursor
	Participants     []state.Participant
}

// Controller wires local input into the store and eraser resolver,
// merges remote events, and owns the room state. All mutation funnels
// through it.
type Controller struct {
	userID   string
	nickname string
	tr       Transport

	mu         sync.Mutex
	store      *state.StrokeStore
	eraser     *state.EraserResolver
	membership *room.Membership
	curOut     *cursor.Outbound
	curIn      *cursor.Inbound
	strokeOut  *frame.Coalescer[state.Stroke]
	cursors    map[string]Cursor

	drawing bool
	erasing bool
	path    []geometry.Point
	color   string
	width   float64

	subMu  sync.Mutex
	subs   map[int]func(View)
	nextID int
}

// Option tweaks a Controller at construction.
type Option func(*Controller)

// WithBrush sets the initial stroke color and width/eraser radius.
func WithBrush(color string, width float64) Option {
	return func(c *Controller) {
		c.color = color
		c.width = width
	}
}

func NewController(tr Transport, sched frame.Scheduler, userID, nickname string, opts ...Option) *Controller {
	store := state.NewStrokeStore()
	c := &Controller{
		userID:     userID,
		nickname:   nickname,
		tr:         tr,
		store:      store,
		eraser:     state.NewEraserResolver(store),
		membership: room.NewMembership(),
		cursors:    make(map[string]Cursor),
		color:      "#000000",
		width:      2,
		subs:       make(map[int]func(View)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.curOut = cursor.NewOutbound(sched, c.sendCursor)
	c.curIn = cursor.NewInbound(sched, userID, c.applyCursorBatch)
	c.strokeOut = frame.NewCoalescer(sched, c.sendStroke)
	return c
}

// CreateRoom requests a new room; on acknowledgment this client is the
// owner and the session is active.
func (c *Controller) CreateRoom(ctx context.Context, roomID string) error {
	return c.enter(ctx, roomID, c.tr.CreateRoom)
}

// JoinRoom joins an existing room and adopts its authoritative snapshot
// as the session's starting state. A rejected join leaves the session
// unjoined with the server's reason surfaced to the caller.
func (c *Controller) JoinRoom(ctx context.Context, roomID string) error {
	return c.enter(ctx, roomID, c.tr.JoinRoom)
}

func (c *Controller) enter(ctx context.Context, roomID string,
	req func(context.Context, string, string, string) (*net.RoomSnapshot, error)) error {

	if !c.membership.BeginJoin(roomID) {
		st, _ := c.membership.State()
		return fmt.Errorf("cannot join from state %s", st)
	}
	snap, err := req(ctx, roomID, c.userID, c.nickname)
	if err != nil {
		c.membership.Fail()
		return err
	}

	// The sole moment an authoritative bulk overwrite is permitted:
	// snapshot first, live events after.
	c.mu.Lock()
	c.store.ReplaceAll(snap.Strokes)
	c.cursors = make(map[string]Cursor)
	c.mu.Unlock()
	c.membership.Activate(snap.Owner.UserID, snap.Users)
	c.notify()
	return nil
}

// LeaveRoom notifies the transport, terminates the membership and
// cancels every scheduled frame callback.
func (c *Controller) LeaveRoom() error {
	st, _ := c.membership.State()
	if st != room.Active {
		return ErrNotActive
	}
	err := c.tr.LeaveRoom(c.membership.RoomID(), c.userID)
	c.membership.Leave()
	c.teardown()
	c.notify()
	return err
}

func (c *Controller) teardown() {
	c.curOut.Close()
	c.curIn.Close()
	c.strokeOut.Close()
	c.mu.Lock()
	c.drawing = false
	c.erasing = false
	c.path = nil
	c.mu.Unlock()
}

// SetBrush updates the stroke color and width (the width doubles as the
// eraser radius).
func (c *Controller) SetBrush(color string, width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if color != "" {
		c.color = color
	}
	if width > 0 {
		c.width = width
	}
}

func (c *Controller) active() bool {
	st, _ := c.membership.State()
	return st == room.Active
}

// PointerMoved reports any local pointer movement. It feeds the
// outbound cursor coalescer: unbounded input collapses to at most one
// cursorMove per frame, newest point winning.
func (c *Controller) PointerMoved(p geometry.Point) error {
	if !c.active() {
		return ErrNotActive
	}
	c.curOut.Move(p)
	return nil
}

// PenDown starts a draw gesture.
func (c *Controller) PenDown(p geometry.Point) error {
	if !c.active() {
		return ErrNotActive
	}
	c.mu.Lock()
	c.drawing = true
	c.path = []geometry.Point{p}
	c.mu.Unlock()
	c.curOut.Move(p)
	c.notify()
	return nil
}

// PenMove extends the in-progress path.
func (c *Controller) PenMove(p geometry.Point) error {
	if !c.active() {
		return ErrNotActive
	}
	c.mu.Lock()
	if !c.drawing {
		c.mu.Unlock()
		return nil
	}
	c.path = append(c.path, p)
	c.mu.Unlock()
	c.curOut.Move(p)
	c.notify()
	return nil
}

// PenUp freezes the gesture into a completed stroke, applies it
// optimistically and hands it to the per-frame pending send. Exactly
// one send per gesture.
func (c *Controller) PenUp() (*state.Stroke, error) {
	if !c.active() {
		return nil, ErrNotActive
	}
	c.mu.Lock()
	if !c.drawing || len(c.path) == 0 {
		c.drawing = false
		c.path = nil
		c.mu.Unlock()
		return nil, nil
	}
	st := state.Stroke{
		ID:        state.NewStrokeID(c.userID),
		Kind:      state.KindLine,
		Points:    c.path,
		Color:     c.color,
		Width:     c.width,
		AuthorID:  c.userID,
		CreatedAt: time.Now(),
	}
	c.drawing = false
	c.path = nil
	c.store.Append(st)
	c.mu.Unlock()

	c.strokeOut.Set(st)
	c.notify()
	return &st, nil
}

// EraseDown starts an eraser gesture and probes immediately.
func (c *Controller) EraseDown(p geometry.Point) error {
	if !c.active() {
		return ErrNotActive
	}
	c.mu.Lock()
	c.erasing = true
	c.mu.Unlock()
	c.eraseAt(p)
	c.curOut.Move(p)
	return nil
}

// EraseMove probes along the eraser drag.
func (c *Controller) EraseMove(p geometry.Point) error {
	if !c.active() {
		return ErrNotActive
	}
	c.mu.Lock()
	erasing := c.erasing
	c.mu.Unlock()
	if erasing {
		c.eraseAt(p)
	}
	c.curOut.Move(p)
	return nil
}

// EraseUp ends the eraser gesture.
func (c *Controller) EraseUp() {
	c.mu.Lock()
	c.erasing = false
	c.mu.Unlock()
}

// eraseAt resolves one probe and, on a hit, applies the deletion
// locally and broadcasts it immediately. Deletions are not coalesced:
// a duplicate delete is idempotent everywhere, a lost one is not.
func (c *Controller) eraseAt(p geometry.Point) {
	c.mu.Lock()
	tol := c.width
	c.mu.Unlock()

	id, ok := c.eraser.Resolve(p, tol)
	if !ok {
		return
	}
	c.store.Remove(id)
	if err := c.tr.SendStrokeDelete(c.membership.RoomID(), id, c.userID); err != nil {
		log.Printf("[session] delete %s not sent: %v", id, err)
	}
	c.notify()
}

func (c *Controller) sendCursor(p geometry.Point) {
	if !c.active() {
		return
	}
	m := net.CursorMove{
		RoomID:   c.membership.RoomID(),
		UserID:   c.userID,
		Nickname: c.nickname,
		Point:    p,
	}
	if err := c.tr.SendCursor(m); err != nil {
		log.Printf("[session] cursor not sent: %v", err)
	}
}

func (c *Controller) sendStroke(st state.Stroke) {
	if !c.active() {
		return
	}
	if err := c.tr.SendStroke(c.membership.RoomID(), st); err != nil {
		log.Printf("[session] stroke %s not sent: %v", st.ID, err)
	}
}

// applyCursorBatch merges one frame's worth of remote cursor updates in
// a single state change.
func (c *Controller) applyCursorBatch(batch map[string]cursor.Update) {
	if !c.active() {
		return
	}
	c.mu.Lock()
	for id, u := range batch {
		c.cursors[id] = Cursor{Nickname: u.Nickname, Point: u.Point}
		c.membership.SetCursor(id, u.Point)
	}
	c.mu.Unlock()
	c.notify()
}

// HandleUserJoined merges a remote join broadcast; duplicates by user
// id are absorbed.
func (c *Controller) HandleUserJoined(p state.Participant) {
	if c.membership.UserJoined(p) {
		c.notify()
	}
}

// HandleUserLeft removes a departed participant and their cursor.
func (c *Controller) HandleUserLeft(userID string) {
	changed := c.membership.UserLeft(userID)
	c.mu.Lock()
	if _, ok := c.cursors[userID]; ok {
		delete(c.cursors, userID)
		changed = true
	}
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// HandleRoomDeleted terminates the session unconditionally: the owner
// left. Overrides any local action in flight and stops all further
// event processing.
func (c *Controller) HandleRoomDeleted() {
	c.membership.RoomDeleted()
	c.teardown()
	c.mu.Lock()
	c.cursors = make(map[string]Cursor)
	c.mu.Unlock()
	c.notify()
}

// HandleCursorUpdate routes a remote cursor event into the inbound
// coalescer.
func (c *Controller) HandleCursorUpdate(u net.CursorUpdate) {
	if !c.active() {
		return
	}
	c.curIn.Receive(u.UserID, u.Nickname, u.Point)
}

// HandleStrokeDrawn merges a relayed stroke. Duplicate delivery of our
// own or anyone's stroke is absorbed by the store's id dedup.
func (c *Controller) HandleStrokeDrawn(st state.Stroke) {
	if !c.active() {
		return
	}
	if c.store.Append(st) {
		c.notify()
	}
}

// HandleStrokeDeleted merges a relayed deletion; unknown ids are
// tolerated (delete can arrive before its stroke).
func (c *Controller) HandleStrokeDeleted(strokeID string) {
	if !c.active() {
		return
	}
	if c.store.Remove(strokeID) {
		c.notify()
	}
}

// View returns the merged render view.
func (c *Controller) View() View {
	st, reason := c.membership.State()
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		RoomID:           c.membership.RoomID(),
		RoomState:        st,
		Reason:           reason,
		CompletedStrokes: c.store.Snapshot(),
		RemoteCursors:    make(map[string]Cursor, len(c.cursors)),
		Participants:     c.membership.Participants(),
	}
	for id, cur := range c.cursors {
		v.RemoteCursors[id] = cur
	}
	if c.drawing && len(c.path) > 0 {
		in := state.Stroke{
			Kind:     state.KindLine,
			Points:   append([]geometry.Point(nil), c.path...),
			Color:    c.color,
			Width:    c.width,
			AuthorID: c.userID,
		}
		v.InProgress = &in
	}
	return v
}

// Subscribe registers a view-change callback and returns its cancel
// handle. Each subscription cancels independently.
func (c *Controller) Subscribe(fn func(View)) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) notify() {
	c.subMu.Lock()
	fns := make([]func(View), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	if len(fns) == 0 {
		return
	}
	v := c.View()
	for _, fn := range fns {
		fn(v)
	}
}
