package task

import (
	"context"
	"errors"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(LifecycleTestSuite))

type LifecycleTestSuite struct{}

func (s *LifecycleTestSuite) TestCleanShutdownIsIdempotent(c *check.C) {
	var l Lifecycle
	c.Assert(l.Admit(), check.IsNil)

	calls := 0
	stop := func() error { calls++; return nil }

	c.Assert(l.Shutdown(stop), check.IsNil)
	c.Assert(l.Shutdown(stop), check.IsNil)
	c.Assert(calls, check.Equals, 1)
	c.Assert(l.State(), check.Equals, StateShuttingDown)
	c.Assert(errors.Is(l.Admit(), ErrNotAccepting), check.Equals, true)
}

func (s *LifecycleTestSuite) TestFailedShutdownIsPermanent(c *check.C) {
	var l Lifecycle

	err := l.Shutdown(func() error { return ShutdownErr(context.DeadlineExceeded) })
	c.Assert(errors.Is(err, ErrShutdownTimedOut), check.Equals, true)
	c.Assert(l.State(), check.Equals, StateFailed)

	err = l.Shutdown(func() error { return nil })
	c.Assert(err, check.Equals, ErrShutdownFailed)
	c.Assert(errors.Is(l.Admit(), ErrNotAccepting), check.Equals, true)
}

func (s *LifecycleTestSuite) TestConcurrentShutdownWaitsForFirst(c *check.C) {
	var l Lifecycle

	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- l.Shutdown(func() error {
			<-release
			return &ShutdownError{Cause: context.Canceled}
		})
	}()

	// Wait until the first shutdown is in progress.
	for l.State() != StateShuttingDown {
		time.Sleep(time.Millisecond)
	}

	secondDone := make(chan error, 1)
	go func() { secondDone <- l.Shutdown(func() error { return nil }) }()

	close(release)

	err := <-firstDone
	c.Assert(errors.Is(err, ErrShutdownFailed), check.Equals, true)
	c.Assert(errors.Is(err, context.Canceled), check.Equals, true)
	c.Assert(<-secondDone, check.Equals, ErrShutdownFailed)
}

var _ = check.Suite(new(StatsTestSuite))

type StatsTestSuite struct{}

func (s *StatsTestSuite) TestRecord(c *check.C) {
	var st Stats

	st.Requested()
	st.Requested()
	st.Requested()
	st.Record(OutcomeCompleted, time.Second, 3*time.Second)
	st.Record(OutcomeFailed, 3*time.Second, time.Second)

	snap := st.Snapshot()
	c.Assert(snap.Requests, check.Equals, uint64(3))
	c.Assert(snap.Finished, check.Equals, uint64(2))
	c.Assert(snap.Completed, check.Equals, uint64(1))
	c.Assert(snap.Failed, check.Equals, uint64(1))
	c.Assert(snap.AvgQueueTime(), check.Equals, 2*time.Second)
	c.Assert(snap.AvgExecTime(), check.Equals, 2*time.Second)

	fields := snap.Fields("deref_")
	c.Assert(fields["deref_requests"], check.Equals, uint64(3))
	c.Assert(fields["deref_avg_exec_time"], check.Equals, "2s")
}

func (s *StatsTestSuite) TestEmptyAverages(c *check.C) {
	var snap Snapshot
	c.Assert(snap.AvgQueueTime(), check.Equals, time.Duration(0))
	c.Assert(snap.AvgExecTime(), check.Equals, time.Duration(0))
}

var _ = check.Suite(new(PriorityTestSuite))

type PriorityTestSuite struct{}

func (s *PriorityTestSuite) TestParse(c *check.C) {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh} {
		parsed, err := ParsePriority(p.String())
		c.Assert(err, check.IsNil)
		c.Assert(parsed, check.Equals, p)
	}

	p, err := ParsePriority("")
	c.Assert(err, check.IsNil)
	c.Assert(p, check.Equals, PriorityNormal)

	_, err = ParsePriority("urgent")
	c.Assert(errors.Is(err, ErrBadArgument), check.Equals, true)
	c.Assert(PriorityLow < PriorityNormal && PriorityNormal < PriorityHigh, check.Equals, true)
}
