package syncqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnreachable reports a transport-level send failure. The
	// queued item stays pending and flushing stops so order is preserved.
	ErrServiceUnreachable = errors.New("sync target unreachable")

	// ErrNothingPending is returned by UndoLast when the queue holds no
	// pending items.
	ErrNothingPending = errors.New("no pending items to undo")
)

// RejectionError reports that the server received the item and refused it.
// The item is marked failed and flushing continues with the next one.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("server rejected item (%d): %s", e.StatusCode, e.Message)
}
