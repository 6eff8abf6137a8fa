package store

import (
	"sync"

	"github.com/hyunsol/croquis/internal/logging"
)

// writeQueue runs persistence off the caller's goroutine. Each collection
// has at most one write in flight; a snapshot scheduled while a previous
// one for the same collection is still queued replaces it. Errors are
// logged, never retried.
type writeQueue struct {
	log logging.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending map[string]func() error
	running bool
	closed  bool
}

func newWriteQueue(log logging.Logger) *writeQueue {
	q := &writeQueue{
		log:     log,
		pending: make(map[string]func() error),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Schedule queues fn under the collection key, superseding any write still
// queued for the same key.
func (q *writeQueue) Schedule(key string, fn func() error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		// Shutdown already started; run inline so the mutation still lands.
		if err := fn(); err != nil {
			q.log.Error("write failed", "collection", key, "err", err)
		}
		return
	}
	q.pending[key] = fn
	q.cond.Broadcast()
}

func (q *writeQueue) loop() {
	q.mu.Lock()
	for {
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			return
		}

		var key string
		for k := range q.pending {
			key = k
			break
		}
		fn := q.pending[key]
		delete(q.pending, key)
		q.running = true
		q.mu.Unlock()

		if err := fn(); err != nil {
			q.log.Error("background write failed", "collection", key, "err", err)
		}

		q.mu.Lock()
		q.running = false
		q.cond.Broadcast()
	}
}

// Flush blocks until the queue is drained and no write is in flight.
func (q *writeQueue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) > 0 || q.running {
		q.cond.Wait()
	}
}

// Close drains the queue and stops the worker.
func (q *writeQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	for len(q.pending) > 0 || q.running {
		q.cond.Wait()
	}
	q.mu.Unlock()
}
