package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(ExecutorTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type ExecutorTestSuite struct{}

func (s *ExecutorTestSuite) TestPriorityOrderWithFIFOTies(c *check.C) {
	exec := NewExecutor(1)
	defer func() { _, _ = exec.ShutdownNow(context.Background()) }()

	gate := newGateRunnable()
	_, err := exec.Submit(gate, PriorityLow)
	c.Assert(err, check.IsNil)
	<-gate.started

	var rec recorder
	for _, r := range []struct {
		name string
		p    Priority
	}{
		{"low-1", PriorityLow},
		{"normal-1", PriorityNormal},
		{"high-1", PriorityHigh},
		{"normal-2", PriorityNormal},
		{"high-2", PriorityHigh},
		{"low-2", PriorityLow},
	} {
		_, err := exec.Submit(rec.runnable(r.name), r.p)
		c.Assert(err, check.IsNil)
	}
	c.Assert(exec.Queued(), check.Equals, 6)

	close(gate.release)
	c.Assert(rec.wait(6, 5*time.Second), check.IsNil)

	c.Assert(rec.order(), check.DeepEquals, []string{
		"high-1", "high-2", "normal-1", "normal-2", "low-1", "low-2",
	})
}

func (s *ExecutorTestSuite) TestRaise(c *check.C) {
	exec := NewExecutor(1)
	defer func() { _, _ = exec.ShutdownNow(context.Background()) }()

	gate := newGateRunnable()
	gateHandle, err := exec.Submit(gate, PriorityLow)
	c.Assert(err, check.IsNil)
	<-gate.started

	var rec recorder
	_, err = exec.Submit(rec.runnable("normal"), PriorityNormal)
	c.Assert(err, check.IsNil)
	lowHandle, err := exec.Submit(rec.runnable("raised"), PriorityLow)
	c.Assert(err, check.IsNil)

	c.Assert(exec.Raise(lowHandle, PriorityLow), check.Equals, false, check.Commentf("raise to the same priority must be a no-op"))
	c.Assert(exec.Raise(lowHandle, PriorityHigh), check.Equals, true)
	c.Assert(exec.Raise(lowHandle, PriorityNormal), check.Equals, false, check.Commentf("priority must never be lowered"))
	c.Assert(exec.Raise(gateHandle, PriorityHigh), check.Equals, false, check.Commentf("started runnables can not be raised"))

	close(gate.release)
	c.Assert(rec.wait(2, 5*time.Second), check.IsNil)
	c.Assert(rec.order(), check.DeepEquals, []string{"raised", "normal"})
}

func (s *ExecutorTestSuite) TestShutdownNowDropsQueuedWork(c *check.C) {
	exec := NewExecutor(1)

	gate := newGateRunnable()
	_, err := exec.Submit(gate, PriorityNormal)
	c.Assert(err, check.IsNil)
	<-gate.started

	var rec recorder
	for i := 0; i < 3; i++ {
		_, err = exec.Submit(rec.runnable("queued"), PriorityNormal)
		c.Assert(err, check.IsNil)
	}

	dropped, err := exec.ShutdownNow(context.Background())
	c.Assert(err, check.IsNil)
	c.Assert(dropped, check.HasLen, 3)
	c.Assert(gate.cancelled(), check.Equals, true, check.Commentf("running work should observe context cancellation"))
	c.Assert(rec.order(), check.HasLen, 0)

	_, err = exec.Submit(rec.runnable("late"), PriorityHigh)
	c.Assert(errors.Is(err, ErrNotAccepting), check.Equals, true)

	// A second shutdown is a no-op.
	dropped, err = exec.ShutdownNow(context.Background())
	c.Assert(err, check.IsNil)
	c.Assert(dropped, check.HasLen, 0)
}

func (s *ExecutorTestSuite) TestShutdownNowTimesOut(c *check.C) {
	exec := NewExecutor(1)

	stuck := make(chan struct{})
	defer close(stuck)

	started := make(chan struct{})
	_, err := exec.Submit(runnableFunc(func(context.Context) {
		close(started)
		<-stuck
	}), PriorityNormal)
	c.Assert(err, check.IsNil)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = exec.ShutdownNow(ctx)
	c.Assert(errors.Is(err, context.DeadlineExceeded), check.Equals, true)
	c.Assert(errors.Is(ShutdownErr(err), ErrShutdownTimedOut), check.Equals, true)
}

type runnableFunc func(context.Context)

func (f runnableFunc) Run(ctx context.Context) { f(ctx) }

type gateRunnable struct {
	started  chan struct{}
	release  chan struct{}
	mu       sync.Mutex
	ctxError error
}

func newGateRunnable() *gateRunnable {
	return &gateRunnable{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gateRunnable) Run(ctx context.Context) {
	close(g.started)

	select {
	case <-g.release:
	case <-ctx.Done():
		g.mu.Lock()
		g.ctxError = ctx.Err()
		g.mu.Unlock()
	}
}

func (g *gateRunnable) cancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.ctxError != nil
}

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) runnable(name string) Runnable {
	return runnableFunc(func(context.Context) {
		r.mu.Lock()
		r.names = append(r.names, name)
		r.mu.Unlock()
	})
}

func (r *recorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.names...)
}

func (r *recorder) wait(n int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(r.order()) >= n {
			return nil
		}
		time.Sleep(time.Millisecond)
	}

	return errors.New("timed out waiting for runnables")
}
