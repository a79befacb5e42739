package urisearch

import (
	"context"
	"sync"
	"time"

	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

type searchTask struct {
	id          dict.ID
	uri         string
	submittedAt time.Time
	mgr         *Manager

	// Set under the status lock right after submission.
	handle   *task.Handle
	priority task.Priority

	mu        sync.Mutex
	listeners []Listener
	notifying bool
}

func newSearchTask(mgr *Manager, id dict.ID, uri string) *searchTask {
	return &searchTask{
		id:          id,
		uri:         uri,
		submittedAt: mgr.config.Clock.Now(),
		mgr:         mgr,
	}
}

func (t *searchTask) attach(listener Listener) {
	if listener == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.notifying {
		return
	}

	for _, l := range t.listeners {
		if l == listener {
			return
		}
	}

	t.listeners = append(t.listeners, listener)
}

func (t *searchTask) detachListeners() []Listener {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.notifying = true

	return t.listeners
}

// Run implements task.Runnable.
func (t *searchTask) Run(ctx context.Context) {
	clk := t.mgr.config.Clock
	startedAt := clk.Now()

	res := &Result{
		ID:        t.id,
		URI:       t.uri,
		QueueTime: startedAt.Sub(t.submittedAt),
	}

	uris, err := t.mgr.config.QueryProcessor.Search(ctx, t.uri)
	res.ExecTime = clk.Now().Sub(startedAt)

	switch {
	case err == nil:
		res.Outcome = task.OutcomeCompleted
		res.Hits = t.hits(uris)
	case ctx.Err() != nil:
		res.Outcome = task.OutcomeInterrupted
		res.Err = err
	default:
		res.Outcome = task.OutcomeFailed
		res.Err = err
	}

	t.mgr.finish(t, res)
}

func (t *searchTask) interrupt(cause error) {
	t.mgr.finish(t, &Result{
		ID:        t.id,
		URI:       t.uri,
		Outcome:   task.OutcomeInterrupted,
		Err:       cause,
		QueueTime: t.mgr.config.Clock.Now().Sub(t.submittedAt),
	})
}

// hits interns uris, dropping duplicates and the searched URI itself.
func (t *searchTask) hits(uris []string) []dict.ID {
	var (
		ids  = make([]dict.ID, 0, len(uris))
		seen = make(map[dict.ID]struct{}, len(uris))
	)

	for _, uri := range uris {
		id := t.mgr.config.Dictionary.Intern(uri)
		if id == dict.Unknown || id == t.id {
			continue
		}

		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}

		ids = append(ids, id)
	}

	return ids
}
