package task

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
)

// Runnable is implemented by units of work that can be scheduled on an
// Executor. The context passed to Run is cancelled when the executor is shut
// down.
type Runnable interface {
	Run(ctx context.Context)
}

// Handle tracks a Runnable submitted to an Executor.
type Handle struct {
	r        Runnable
	priority Priority
	seq      uint64
	index    int // Position in the queue, -1 once dequeued.
}

// Executor runs submitted work on a fixed number of worker goroutines.
// Queued work is dispatched by priority and, within a priority, in the order
// it was submitted. The queue itself is unbounded.
type Executor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  runQueue
	seq    uint64
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExecutor starts an executor with numOfWorkers workers.
func NewExecutor(numOfWorkers int) *Executor {
	if numOfWorkers <= 0 {
		panic("Executor: numOfWorkers must be > 0")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		ctx:    ctx,
		cancel: cancel,
	}
	e.cond = sync.NewCond(&e.mu)

	e.wg.Add(numOfWorkers)
	for i := 0; i < numOfWorkers; i++ {
		go e.worker()
	}

	return e
}

// Submit queues r for execution with priority p.
func (e *Executor) Submit(r Runnable, p Priority) (*Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("submit: %w", ErrNotAccepting)
	}

	e.seq++
	h := &Handle{r: r, priority: p, seq: e.seq}
	heap.Push(&e.queue, h)
	e.cond.Signal()

	return h, nil
}

// Raise moves a queued runnable up to priority p. It returns false, leaving
// the queue untouched, if the runnable has already been dequeued or if p is
// not higher than its current priority. A raised runnable is ordered after
// runnables already queued with priority p.
func (e *Executor) Raise(h *Handle, p Priority) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h.index < 0 || p <= h.priority {
		return false
	}

	e.seq++
	h.priority = p
	h.seq = e.seq
	heap.Fix(&e.queue, h.index)

	return true
}

// Queued returns the number of runnables waiting for a worker.
func (e *Executor) Queued() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.queue)
}

// ShutdownNow stops accepting work, removes and returns every queued runnable
// that never started, cancels the context of running work and waits for the
// workers to exit. If ctx expires first, ctx.Err() is returned. It is safe
// to call ShutdownNow more than once.
func (e *Executor) ShutdownNow(ctx context.Context) ([]Runnable, error) {
	e.mu.Lock()
	e.closed = true

	dropped := make([]Runnable, 0, len(e.queue))
	for e.queue.Len() > 0 {
		dropped = append(dropped, heap.Pop(&e.queue).(*Handle).r)
	}

	e.cond.Broadcast()
	e.mu.Unlock()

	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return dropped, nil
	case <-ctx.Done():
		return dropped, ctx.Err()
	}
}

func (e *Executor) worker() {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}

		if e.closed {
			e.mu.Unlock()

			return
		}

		h := heap.Pop(&e.queue).(*Handle)
		e.mu.Unlock()

		h.r.Run(e.ctx)
	}
}

// runQueue is a heap.Interface ordered by descending priority and ascending
// submission sequence.
type runQueue []*Handle

func (q runQueue) Len() int { return len(q) }

func (q runQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}

	return q[i].seq < q[j].seq
}

func (q runQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *runQueue) Push(x interface{}) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *runQueue) Pop() interface{} {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*q = old[:n-1]

	return h
}
