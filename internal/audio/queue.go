package audio

import (
	"sync"
	"time"
)

// FrameQueue is the handoff conduit between the capture callback and the
// accumulator worker. Push never blocks and never drops; the queue grows
// without bound if the consumer stalls.
type FrameQueue struct {
	mu    sync.Mutex
	items [][]byte
	wake  chan struct{}
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{wake: make(chan struct{}, 1)}
}

func (q *FrameQueue) Push(batch []byte) {
	q.mu.Lock()
	q.items = append(q.items, batch)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// PopWait removes and returns the oldest batch, waiting up to timeout for
// one to arrive. The second return is false on timeout.
func (q *FrameQueue) PopWait(timeout time.Duration) ([]byte, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			batch := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return batch, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-deadline.C:
			return nil, false
		}
	}
}

func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
