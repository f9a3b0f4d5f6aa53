// Package serial provides a FIFO work queue that guarantees at most one
// in-flight call at a time, for wrapping non-reentrant external resources.
package serial

import (
	"errors"
)

// ErrQueueClosed is returned by Do after Close was called.
var ErrQueueClosed = errors.New("queue is closed")

type task struct {
	fn   func() error
	done chan error
}

// Queue executes submitted functions one at a time, in arrival order.
type Queue struct {
	tasks  chan task
	closed chan struct{}
}

// Do submits fn and blocks until it has run. Tasks submitted while another
// one is executing wait their turn; arrival order is preserved.
func (q *Queue) Do(fn func() error) error {
	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case q.tasks <- t:
		return <-t.done
	case <-q.closed:
		return ErrQueueClosed
	}
}

// Close stops accepting new tasks. Tasks already queued still run.
func (q *Queue) Close() {
	close(q.closed)
}

func (q *Queue) worker() {
	for {
		select {
		case t := <-q.tasks:
			t.done <- t.fn()
		case <-q.closed:
			// Drain whatever got in before Close
			for {
				select {
				case t := <-q.tasks:
					t.done <- t.fn()
				default:
					return
				}
			}
		}
	}
}

// NewQueue creates a Queue and starts its single worker goroutine.
func NewQueue() *Queue {
	q := &Queue{
		tasks:  make(chan task),
		closed: make(chan struct{}),
	}
	go q.worker()
	return q
}
