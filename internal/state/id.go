package state

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// NewUserID returns a process-lifetime-stable identity for this client.
func NewUserID() string {
	return "user-" + uuid.NewString()
}

var strokeSeq atomic.Int64

// NewStrokeID builds a low-collision stroke id from the author and a
// monotonically increasing local timestamp. The sequence counter keeps
// ids distinct even when two strokes complete within the same
// millisecond.
func NewStrokeID(authorID string) string {
	return fmt.Sprintf("%s-%d-%d", authorID, time.Now().UnixMilli(), strokeSeq.Add(1))
}
