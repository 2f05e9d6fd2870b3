package queue

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/outofforest/pulse/wire"
)

// ErrClosed is returned by Next when queue is closed and empty.
var ErrClosed = errors.New("queue closed")

// DefaultLimit is the default number of unreliable frames kept in the queue.
const DefaultLimit = 64

// New creates queue. Limit caps the number of buffered unreliable frames.
func New(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Queue{
		limit:  limit,
		notify: make(chan struct{}, 1),
	}
}

// Queue buffers frames waiting to be sent over the connection.
//
// Reliable frames are never dropped and are delivered in order. Unreliable frames are delivered
// after the reliable ones, and when the limit is reached the oldest unreliable frame is dropped.
type Queue struct {
	limit  int
	notify chan struct{}

	mu         sync.Mutex
	reliable   []wire.Frame
	unreliable []wire.Frame
	closed     bool
	dropped    uint64
}

// Push adds frame to the queue. It returns false if queue is closed.
func (q *Queue) Push(frame wire.Frame, reliability wire.Reliability) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	if reliability == wire.Reliable {
		q.reliable = append(q.reliable, frame)
	} else {
		if len(q.unreliable) >= q.limit {
			q.unreliable[0] = wire.Frame{}
			q.unreliable = q.unreliable[1:]
			q.dropped++
		}
		q.unreliable = append(q.unreliable, frame)
	}

	q.signal()
	return true
}

// Purge drops all the unreliable frames sent by the device.
func (q *Queue) Purge(sender wire.DeviceID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.unreliable[:0]
	for _, f := range q.unreliable {
		if f.Header.Sender != sender {
			kept = append(kept, f)
		}
	}
	clear(q.unreliable[len(kept):])
	q.unreliable = kept
}

// Next returns next frame to send, waiting until one is available.
func (q *Queue) Next(ctx context.Context) (wire.Frame, error) {
	for {
		q.mu.Lock()
		switch {
		case len(q.reliable) > 0:
			f := q.reliable[0]
			q.reliable[0] = wire.Frame{}
			q.reliable = q.reliable[1:]
			q.mu.Unlock()
			return f, nil
		case len(q.unreliable) > 0:
			f := q.unreliable[0]
			q.unreliable[0] = wire.Frame{}
			q.unreliable = q.unreliable[1:]
			q.mu.Unlock()
			return f, nil
		case q.closed:
			q.mu.Unlock()
			return wire.Frame{}, errors.WithStack(ErrClosed)
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return wire.Frame{}, errors.WithStack(ctx.Err())
		case <-q.notify:
		}
	}
}

// Close closes the queue. Frames already queued are still returned by Next.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.signal()
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.reliable) + len(q.unreliable)
}

// Dropped returns the number of unreliable frames dropped because of the limit.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
