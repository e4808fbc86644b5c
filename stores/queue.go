package stores

import (
	"sync"
)

// SerialQueue runs submitted jobs one at a time, in submission order, on a single
// worker goroutine. Backends use it to honor the FeedStore ordering contract.
type SerialQueue struct {
	mu     sync.Mutex
	jobs   []func()
	signal chan struct{}
	closed bool

	done chan struct{}
}

// NewSerialQueue starts the worker goroutine. Call Close to stop it.
func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go q.run()

	return q
}

// Dispatch enqueues job. It reports false, without running job, if the queue is closed.
func (q *SerialQueue) Dispatch(job func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// Close stops accepting jobs, waits for the queued ones to finish and stops the worker.
// It must not be called from inside a job.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}

	<-q.done
}

func (q *SerialQueue) run() {
	defer close(q.done)

	for range q.signal {
		for {
			q.mu.Lock()
			if len(q.jobs) == 0 {
				closed := q.closed
				q.mu.Unlock()
				if closed {
					return
				}
				break
			}
			job := q.jobs[0]
			q.jobs[0] = nil
			q.jobs = q.jobs[1:]
			q.mu.Unlock()

			job()
		}
	}
}
