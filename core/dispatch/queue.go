package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStopped is returned when submitting to a queue that is not running.
var ErrStopped = errors.New("dispatch queue stopped")

// Queue runs closures serially on one goroutine.
type Queue struct {
	work chan func()
	quit chan struct{}
	wg   sync.WaitGroup

	mu      sync.RWMutex
	running bool
	stopped bool
}

// New creates a queue buffering up to size pending closures.
func New(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		work: make(chan func(), size),
		quit: make(chan struct{}),
	}
}

// Start launches the worker. Calling it twice is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running || q.stopped {
		return
	}
	q.running = true
	q.wg.Add(1)
	go q.loop()
}

func (q *Queue) loop() {
	defer q.wg.Done()
	for {
		select {
		case fn := <-q.work:
			fn()
		case <-q.quit:
			// Drain what was accepted before the stop.
			for {
				select {
				case fn := <-q.work:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Stop runs the closures already queued, then joins the worker.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.stopped = true
		q.mu.Unlock()
		return
	}
	q.running = false
	q.stopped = true
	close(q.quit)
	q.mu.Unlock()
	q.wg.Wait()
}

// Async queues fn without waiting for it.
func (q *Queue) Async(fn func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return ErrStopped
	}
	q.work <- fn
	return nil
}

// Sync queues fn and waits for its result. The context bounds the wait; once
// fn has started it always runs to completion.
func (q *Queue) Sync(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("dispatch: panic: %v", r)
			}
		}()
		done <- fn()
	}

	if err := q.enqueue(ctx, task); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) enqueue(ctx context.Context, task func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return ErrStopped
	}
	select {
	case q.work <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
