package lookup

import (
	"context"
	"sync"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

var _ = check.Suite(new(FinishTestSuite))

type FinishTestSuite struct{}

// silentDerefManager accepts every request and never reports back, which
// keeps look-ups pending until they are interrupted.
type silentDerefManager struct{}

func (silentDerefManager) DereferenceableID(id dict.ID) dict.ID { return id }

func (silentDerefManager) RequestDereferencing(
	context.Context, dict.ID, task.Priority, decision.Policy, deref.Importer, deref.Analyzer, deref.Listener,
) (*deref.Result, error) {
	return nil, nil
}

func (silentDerefManager) ShutdownNow(context.Context, time.Duration) error { return nil }
func (silentDerefManager) Stats() task.Snapshot                             { return task.Snapshot{} }

type countingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *countingListener) LookUpCompleted(*Result) { l.record() }
func (l *countingListener) LookUpFailed(*Result)    { l.record() }

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
	m, err := NewManager(Config{
		Settings: Settings{
			Dereferencing: silentDerefManager{},
			MaxSteps:      1,
			Timeout:       time.Hour,
		},
		Dictionary:   dict.New(),
		NumOfWorkers: 1,
	})
	c.Assert(err, check.IsNil)
	defer func() { _ = m.ShutdownNow(context.Background(), 3*time.Second) }()

	const uri = "http://example.com/"
	id := m.Dictionary().Intern(uri)
	listener := new(countingListener)

	cached, err := m.RequestLookUp(context.TODO(), id, task.PriorityNormal, nil, nil, listener)
	c.Assert(err, check.IsNil)
	c.Assert(cached, check.IsNil)

	pending, ok := m.statuses.Get(id).Task()
	c.Assert(ok, check.Equals, true)

	first := &Result{ID: id, URI: uri, Outcome: task.OutcomeCompleted, MaxStepsReached: 2}
	m.finish(pending, first)
	m.finish(pending, &Result{ID: id, URI: uri, Outcome: task.OutcomeFailed, MaxStepsReached: 5})
	m.finish(
		newLookupTask(m, id, uri, task.PriorityNormal, nil),
		&Result{ID: id, URI: uri, Outcome: task.OutcomeFailed, MaxStepsReached: 7},
	)

	got, _, ok := m.statuses.Get(id).Result()
	c.Assert(ok, check.Equals, true)
	c.Assert(got, check.Equals, first)

	stats := m.Stats()
	c.Assert(stats.Finished, check.Equals, uint64(1))
	c.Assert(stats.Failed, check.Equals, uint64(0))
	c.Assert(stats.MaxStepsReached, check.Equals, uint64(2))
	c.Assert(listener.count(), check.Equals, 1)
}
