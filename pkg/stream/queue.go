// ABOUTME: Bounded chunk queue between callers and the decode worker
// ABOUTME: Non-blocking submit with drop-on-full, cancellable take
package stream

import "context"

// DefaultQueueSize is the chunk capacity used when none is configured
const DefaultQueueSize = 256

// Queue hands chunks from any number of producers to one consumer
type Queue struct {
	chunks chan []byte
}

// NewQueue creates a queue holding up to capacity chunks
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{
		chunks: make(chan []byte, capacity),
	}
}

// Submit enqueues chunk without blocking. When the queue is at capacity the
// chunk is dropped and ErrQueueFull is returned.
func (q *Queue) Submit(chunk []byte) error {
	select {
	case q.chunks <- chunk:
		return nil
	default:
		return ErrQueueFull
	}
}

// Take blocks until a chunk is available or ctx is done. ok is false only
// when ctx ended first.
func (q *Queue) Take(ctx context.Context) (chunk []byte, ok bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	select {
	case <-ctx.Done():
		return nil, false
	case chunk = <-q.chunks:
		return chunk, true
	}
}

// Len returns the number of queued chunks
func (q *Queue) Len() int {
	return len(q.chunks)
}

// Cap returns the queue capacity
func (q *Queue) Cap() int {
	return cap(q.chunks)
}
