// Package webhook fans events out to registered subscribers. Dispatch
// is decoupled from the mutating request that triggers it: handlers
// enqueue after persisting, a worker drains the queue, and nothing that
// happens here flows back to the caller.
package webhook

import (
	"sync"

	"scout-pipeline/internal/common/metrics"
	"scout-pipeline/internal/models"
)

// Queue is a bounded in-memory event queue with non-blocking enqueue.
// A full or closed queue drops the event; there is deliberately no
// backpressure into the request path.
type Queue struct {
	events chan models.Event
	mu     sync.RWMutex
	closed bool
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1024
	}
	return &Queue{events: make(chan models.Event, size)}
}

// Enqueue adds an event, returning false when the queue is full or
// closed.
func (q *Queue) Enqueue(e models.Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.EventsDropped.Inc()
		return false
	}

	select {
	case q.events <- e:
		metrics.EventQueueDepth.Set(float64(len(q.events)))
		return true
	default:
		metrics.EventsDropped.Inc()
		return false
	}
}

// Dequeue exposes the receive side for the dispatch worker.
func (q *Queue) Dequeue() <-chan models.Event {
	return q.events
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Close stops accepting events and lets the worker drain what is left.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}
