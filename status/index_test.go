package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(IndexTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type testTask struct{ name string }

type testIndex = Index[int, *testTask, string]

type IndexTestSuite struct {
	ix *testIndex
}

func (s *IndexTestSuite) SetUpTest(c *check.C) {
	s.ix = NewIndex[int, *testTask, string]()
}

func (s *IndexTestSuite) TearDownTest(c *check.C) {
	s.ix.Close()
}

func (s *IndexTestSuite) TestUnknownByDefault(c *check.C) {
	st := s.ix.Get(1)
	c.Assert(st.Kind(), check.Equals, KindUnknown)

	_, ok := st.Task()
	c.Assert(ok, check.Equals, false)
	_, _, ok = st.Result()
	c.Assert(ok, check.Equals, false)
}

func (s *IndexTestSuite) TestTransitions(c *check.C) {
	t := &testTask{name: "first"}

	lease, err := s.ix.Lock(context.TODO(), 7)
	c.Assert(err, check.IsNil)
	c.Assert(lease.Status().Kind(), check.Equals, KindUnknown)
	c.Assert(lease.Update(Pending[*testTask, string](t)), check.IsNil)
	c.Assert(lease.Status().Kind(), check.Equals, KindPending)
	lease.Unlock()

	st := s.ix.Get(7)
	got, ok := st.Task()
	c.Assert(ok, check.Equals, true)
	c.Assert(got, check.Equals, t)

	finishedAt := time.Now()
	err = s.ix.WithLocked(context.TODO(), 7, func(l *Lease[int, *testTask, string]) error {
		return l.Update(Finished[*testTask, string]("done", finishedAt))
	})
	c.Assert(err, check.IsNil)

	res, at, ok := s.ix.Get(7).Result()
	c.Assert(ok, check.Equals, true)
	c.Assert(res, check.Equals, "done")
	c.Assert(at.Equal(finishedAt), check.Equals, true)
}

func (s *IndexTestSuite) TestLockIsExclusive(c *check.C) {
	lease, err := s.ix.Lock(context.TODO(), 1)
	c.Assert(err, check.IsNil)

	acquired := make(chan *Lease[int, *testTask, string])
	go func() {
		l, err := s.ix.Lock(context.TODO(), 1)
		c.Check(err, check.IsNil)
		acquired <- l
	}()

	// Other keys are not affected by the held lock.
	other, err := s.ix.Lock(context.TODO(), 2)
	c.Assert(err, check.IsNil)
	other.Unlock()

	select {
	case <-acquired:
		c.Fatal("lock acquired while held by another lease")
	case <-time.After(50 * time.Millisecond):
	}

	c.Assert(lease.Update(Pending[*testTask, string](&testTask{name: "x"})), check.IsNil)
	lease.Unlock()

	select {
	case l := <-acquired:
		c.Assert(l.Status().Kind(), check.Equals, KindPending, check.Commentf("waiter should observe the update made by the previous holder"))
		l.Unlock()
	case <-time.After(5 * time.Second):
		c.Fatal("timed out waiting for lock hand-over")
	}
}

func (s *IndexTestSuite) TestCancelledLockIsReleased(c *check.C) {
	lease, err := s.ix.Lock(context.TODO(), 1)
	c.Assert(err, check.IsNil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.ix.Lock(ctx, 1)
	c.Assert(errors.Is(err, context.DeadlineExceeded), check.Equals, true)

	lease.Unlock()

	// The lock handed to the cancelled waiter must find its way back.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()

	l, err := s.ix.Lock(ctx2, 1)
	c.Assert(err, check.IsNil)
	l.Unlock()
}

func (s *IndexTestSuite) TestAtMostOneDecisionPerKey(c *check.C) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := s.ix.WithLocked(context.TODO(), 3, func(l *Lease[int, *testTask, string]) error {
				if l.Status().Kind() != KindUnknown {
					return nil
				}

				mu.Lock()
				created++
				mu.Unlock()

				return l.Update(Pending[*testTask, string](&testTask{}))
			})
			c.Check(err, check.IsNil)
		}()
	}

	wg.Wait()
	c.Assert(created, check.Equals, 1)
}

func (s *IndexTestSuite) TestClosed(c *check.C) {
	s.ix.Close()

	_, err := s.ix.Lock(context.TODO(), 1)
	c.Assert(err, check.Equals, ErrClosed)
	c.Assert(s.ix.Get(1).Kind(), check.Equals, KindUnknown)
}
