package status

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("status index closed")

type opKind uint8

const (
	opGet opKind = iota
	opLock
	opUpdate
	opUnlock
)

type request[K comparable, P, R any] struct {
	op     opKind
	key    K
	status Status[P, R]
	reply  chan Status[P, R]
}

type entry[P, R any] struct {
	status  Status[P, R]
	locked  bool
	waiters []chan Status[P, R]
}

// Index maps keys of type K to statuses. Keys without an entry have the
// Unknown status.
type Index[K comparable, P, R any] struct {
	reqChan   chan request[K, P, R]
	done      chan struct{}
	closeOnce sync.Once
}

// NewIndex starts the goroutine that owns a new, empty index.
func NewIndex[K comparable, P, R any]() *Index[K, P, R] {
	ix := &Index[K, P, R]{
		reqChan: make(chan request[K, P, R]),
		done:    make(chan struct{}),
	}

	go ix.serve()

	return ix
}

// Close stops the owner goroutine. Operations issued afterwards fail with
// ErrClosed and Get returns the Unknown status.
func (ix *Index[K, P, R]) Close() {
	ix.closeOnce.Do(func() { close(ix.done) })
}

// Get returns a snapshot of the status of key without locking it.
func (ix *Index[K, P, R]) Get(key K) Status[P, R] {
	s, _ := ix.call(context.Background(), request[K, P, R]{op: opGet, key: key})

	return s
}

// Lock acquires the exclusive lock on key and returns a lease holding a
// snapshot of its status. Lock blocks while another lease on key is held;
// waiters are served in arrival order. The lease must be released with
// Unlock.
func (ix *Index[K, P, R]) Lock(ctx context.Context, key K) (*Lease[K, P, R], error) {
	if ix.isClosed() {
		return nil, ErrClosed
	}

	req := request[K, P, R]{op: opLock, key: key, reply: make(chan Status[P, R], 1)}

	select {
	case ix.reqChan <- req:
	case <-ix.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case s := <-req.reply:
		return &Lease[K, P, R]{ix: ix, key: key, status: s}, nil
	case <-ix.done:
		return nil, ErrClosed
	case <-ctx.Done():
		// The lock may still be granted to us; hand it straight back.
		go func() {
			select {
			case <-req.reply:
				ix.unlock(key)
			case <-ix.done:
			}
		}()

		return nil, ctx.Err()
	}
}

// WithLocked locks key, invokes fn with the lease and always releases the
// lock afterwards.
func (ix *Index[K, P, R]) WithLocked(
	ctx context.Context, key K, fn func(*Lease[K, P, R]) error,
) error {

	lease, err := ix.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer lease.Unlock()

	return fn(lease)
}

func (ix *Index[K, P, R]) isClosed() bool {
	select {
	case <-ix.done:
		return true
	default:
		return false
	}
}

func (ix *Index[K, P, R]) unlock(key K) {
	_, _ = ix.call(context.Background(), request[K, P, R]{op: opUnlock, key: key})
}

func (ix *Index[K, P, R]) call(
	ctx context.Context, req request[K, P, R],
) (Status[P, R], error) {

	var zero Status[P, R]
	if ix.isClosed() {
		return zero, ErrClosed
	}

	if req.reply == nil {
		req.reply = make(chan Status[P, R], 1)
	}

	select {
	case ix.reqChan <- req:
	case <-ix.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case s := <-req.reply:
		return s, nil
	case <-ix.done:
		return zero, ErrClosed
	}
}

// serve owns the status map. Replies are written to buffered channels so the
// owner never blocks on a slow caller.
func (ix *Index[K, P, R]) serve() {
	entries := make(map[K]*entry[P, R])

	for {
		select {
		case <-ix.done:
			return
		case req := <-ix.reqChan:
			e := entries[req.key]

			switch req.op {
			case opGet:
				var s Status[P, R]
				if e != nil {
					s = e.status
				}
				req.reply <- s

			case opLock:
				if e == nil {
					e = new(entry[P, R])
					entries[req.key] = e
				}

				if e.locked {
					e.waiters = append(e.waiters, req.reply)

					continue
				}

				e.locked = true
				req.reply <- e.status

			case opUpdate:
				if e == nil || !e.locked {
					panic("status: update of a key that is not locked")
				}

				e.status = req.status
				req.reply <- e.status

			case opUnlock:
				if e == nil || !e.locked {
					req.reply <- Status[P, R]{}

					continue
				}

				if len(e.waiters) > 0 {
					// Hand the lock over to the longest waiting caller.
					next := e.waiters[0]
					e.waiters = e.waiters[1:]
					next <- e.status
				} else {
					e.locked = false
					if e.status.kind == KindUnknown {
						delete(entries, req.key)
					}
				}

				req.reply <- e.status
			}
		}
	}
}

// Lease is an exclusive hold on the status of a single key.
type Lease[K comparable, P, R any] struct {
	ix       *Index[K, P, R]
	key      K
	status   Status[P, R]
	released bool
}

// Key returns the locked key.
func (l *Lease[K, P, R]) Key() K {
	return l.key
}

// Status returns the status of the locked key, including updates made
// through this lease.
func (l *Lease[K, P, R]) Status() Status[P, R] {
	return l.status
}

// Update replaces the status of the locked key. The lock is kept.
func (l *Lease[K, P, R]) Update(s Status[P, R]) error {
	if l.released {
		return errors.New("status: update through a released lease")
	}

	if _, err := l.ix.call(
		context.Background(), request[K, P, R]{op: opUpdate, key: l.key, status: s},
	); err != nil {
		return err
	}

	l.status = s

	return nil
}

// Unlock releases the lock without changing the status. Calling Unlock more
// than once has no effect.
func (l *Lease[K, P, R]) Unlock() {
	if l.released {
		return
	}

	l.released = true
	l.ix.unlock(l.key)
}
