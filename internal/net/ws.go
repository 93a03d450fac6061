package net

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSLink carries envelopes over a WebSocket connection. Writes are
// serialized; reads happen on a single loop so inbound envelopes keep
// the server's per-connection order.
type WSLink struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	closed  sync.Once
}

// DialWS connects to a Collaboard server, e.g. ws://host:port/ws.
func DialWS(ctx context.Context, url string) (*WSLink, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	log.Printf("[net] connected to %s", url)
	return &WSLink{conn: conn}, nil
}

// Send writes one envelope as a JSON text message.
func (l *WSLink) Send(env Envelope) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	return l.conn.WriteJSON(env)
}

// ReadLoop decodes inbound envelopes and hands them to dispatch until
// the connection drops. It blocks; run it on its own goroutine.
func (l *WSLink) ReadLoop(dispatch func(Envelope)) error {
	for {
		var env Envelope
		if err := l.conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		dispatch(env)
	}
}

// Close shuts the socket down. Safe to call more than once.
func (l *WSLink) Close() error {
	var err error
	l.closed.Do(func() {
		l.writeMu.Lock()
		_ = l.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		l.writeMu.Unlock()
		err = l.conn.Close()
	})
	return err
}
