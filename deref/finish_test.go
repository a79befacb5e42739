package deref

import (
	"context"
	"sync"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

var _ = check.Suite(new(FinishTestSuite))

type FinishTestSuite struct{}

type countingListener struct {
	mu      sync.Mutex
	results []*Result
}

func (l *countingListener) DereferencingCompleted(r *Result) { l.record(r) }
func (l *countingListener) DereferencingFailed(r *Result)    { l.record(r) }

func (l *countingListener) record(r *Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *countingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

func (s *FinishTestSuite) TestResultOfStaleTaskIsDiscarded(c *check.C) {
	gate := make(chan struct{})
	m, err := NewManager(Config{
		Dereferencer: dereferencerFunc(func(ctx context.Context, uri string) (*Document, error) {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return &Document{URI: uri}, nil
		}),
		Dictionary:   dict.New(),
		NumOfWorkers: 1,
	})
	c.Assert(err, check.IsNil)
	defer func() {
		close(gate)
		c.Assert(m.ShutdownNow(context.Background(), 5*time.Second), check.IsNil)
	}()

	const uri = "http://example.com/"
	id := m.Dictionary().Intern(uri)
	listener := new(countingListener)

	cached, err := m.RequestDereferencing(context.TODO(), id, task.PriorityNormal, nil, nil, nil, listener)
	c.Assert(err, check.IsNil)
	c.Assert(cached, check.IsNil)

	pending, ok := m.statuses.Get(id).Task()
	c.Assert(ok, check.Equals, true)

	first := &Result{ID: id, URI: uri, Outcome: task.OutcomeCompleted}
	m.finish(pending, first)

	// A second result for the same task and a result from a task that was
	// never pending must both leave the recorded result untouched.
	m.finish(pending, &Result{ID: id, URI: uri, Outcome: task.OutcomeFailed})
	m.finish(newDerefTask(m, id, uri, nil), &Result{ID: id, URI: uri, Outcome: task.OutcomeFailed})

	got, _, ok := m.statuses.Get(id).Result()
	c.Assert(ok, check.Equals, true)
	c.Assert(got, check.Equals, first)
	c.Assert(m.Stats().Finished, check.Equals, uint64(1))
	c.Assert(m.Stats().Completed, check.Equals, uint64(1))
	c.Assert(m.Stats().Failed, check.Equals, uint64(0))
	c.Assert(listener.count(), check.Equals, 1)
}
