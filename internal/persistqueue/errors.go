package persistqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports transient back-pressure: the shard queue was full when
// Submit tried to enqueue a job.
var ErrQueueFull = errors.New("persist queue full")

// ErrQueueClosed reports a permanent condition: the queue has been stopped
// and accepts no further work.
var ErrQueueClosed = errors.New("persist queue closed")

// QueueFullError carries diagnostics while satisfying errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("persist queue shard %d full (len=%d cap=%d)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
