package urisearch

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

type queryProcessorFunc func(ctx context.Context, uri string) ([]string, error)

func (f queryProcessorFunc) Search(ctx context.Context, uri string) ([]string, error) {
	return f(ctx, uri)
}

type countingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *countingListener) SearchCompleted(*Result) { l.record() }
func (l *countingListener) SearchFailed(*Result)    { l.record() }

func (l *countingListener) record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
}

func (l *countingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (s *FinishTestSuite) TestResultOfStaleTaskIsDiscarded(c *check.C) {
	gate := make(chan struct{})
	m, err := NewManager(Config{
		QueryProcessor: queryProcessorFunc(func(ctx context.Context, uri string) ([]string, error) {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return nil, nil
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
	id := m.config.Dictionary.Intern(uri)
	listener := new(countingListener)

	cached, err := m.RequestSearch(context.TODO(), id, task.PriorityNormal, nil, listener)
	c.Assert(err, check.IsNil)
	c.Assert(cached, check.IsNil)

	pending, ok := m.statuses.Get(id).Task()
	c.Assert(ok, check.Equals, true)

	first := &Result{ID: id, URI: uri, Outcome: task.OutcomeCompleted}
	m.finish(pending, first)
	m.finish(pending, &Result{ID: id, URI: uri, Outcome: task.OutcomeFailed})
	m.finish(newSearchTask(m, id, uri), &Result{ID: id, URI: uri, Outcome: task.OutcomeFailed})

	got, _, ok := m.statuses.Get(id).Result()
	c.Assert(ok, check.Equals, true)
	c.Assert(got, check.Equals, first)
	c.Assert(m.Stats().Finished, check.Equals, uint64(1))
	c.Assert(m.Stats().Failed, check.Equals, uint64(0))
	c.Assert(listener.count(), check.Equals, 1)
}
