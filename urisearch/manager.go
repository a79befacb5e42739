/*
	urisearch package schedules searches for documents that mention a URI.
	It follows the same request merging, prioritisation and caching rules
	as the dereferencing manager.
*/

package urisearch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/status"
	"github.com/mycok/uLookup/task"
)

type searchLease = status.Lease[dict.ID, *searchTask, *Result]

// Manager schedules search tasks. At most one task per identifier is in
// flight at any time.
type Manager struct {
	config   Config
	statuses *status.Index[dict.ID, *searchTask, *Result]
	exec     *task.Executor
	life     task.Lifecycle
	stats    task.Stats
}

// NewManager creates and returns a fully configured search manager.
func NewManager(config Config) (*Manager, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("search manager: config validation failed: %w", err)
	}

	return &Manager{
		config:   config,
		statuses: status.NewIndex[dict.ID, *searchTask, *Result](),
		exec:     task.NewExecutor(config.NumOfWorkers),
	}, nil
}

// RequestSearch requests a search for id with priority p.
//
// A finished search is returned from the cache unless searchAgain asks for
// a new one. Otherwise the request is merged into the pending task for id,
// or a new task is queued, and a nil result is returned; listener is then
// notified once the task finishes.
//
// RequestSearch fails with task.ErrNotAccepting when the manager is shutting
// down and with task.ErrBadArgument when id is not interned.
func (m *Manager) RequestSearch(
	ctx context.Context,
	id dict.ID,
	p task.Priority,
	searchAgain decision.Policy,
	listener Listener,
) (*Result, error) {

	if err := m.life.Admit(); err != nil {
		return nil, fmt.Errorf("request search: %w", err)
	}

	uri, ok := m.config.Dictionary.URI(id)
	if !ok {
		return nil, fmt.Errorf("request search for %d: %w", id, task.ErrBadArgument)
	}

	m.stats.Requested()

	var cached *Result
	err := m.statuses.WithLocked(ctx, id, func(lease *searchLease) error {
		current := lease.Status()

		switch current.Kind() {
		case status.KindPending:
			t, _ := current.Task()
			t.attach(listener)

			if p > t.priority && m.exec.Raise(t.handle, p) {
				t.priority = p
			}

			return nil

		case status.KindFinished:
			res, finishedAt, _ := current.Result()
			if searchAgain == nil || !searchAgain(decision.Finished{
				ID: id, Outcome: res.Outcome, FinishedAt: finishedAt,
			}) {
				cached = res

				return nil
			}
		}

		t := newSearchTask(m, id, uri)
		t.attach(listener)

		if err := lease.Update(status.Pending[*searchTask, *Result](t)); err != nil {
			return err
		}

		handle, err := m.exec.Submit(t, p)
		if err != nil {
			if restoreErr := lease.Update(current); restoreErr != nil {
				m.config.Logger.WithField("err", restoreErr).Error("unable to restore status")
			}

			return err
		}

		t.handle = handle
		t.priority = p

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("request search for %d: %w", id, err)
	}

	return cached, nil
}

func (m *Manager) finish(t *searchTask, res *Result) {
	var listeners []Listener

	err := m.statuses.WithLocked(context.Background(), t.id, func(lease *searchLease) error {
		current, ok := lease.Status().Task()
		if !ok || current != t {
			m.config.Logger.WithFields(logrus.Fields{
				"uri":    t.uri,
				"status": lease.Status().Kind().String(),
			}).Warn("discarding result of a search that is not pending")

			return nil
		}

		m.stats.Record(res.Outcome, res.QueueTime, res.ExecTime)
		listeners = t.detachListeners()

		return lease.Update(status.Finished[*searchTask, *Result](res, m.config.Clock.Now()))
	})
	if err != nil {
		m.config.Logger.WithFields(logrus.Fields{
			"uri": t.uri,
			"err": err,
		}).Error("unable to record search result")
	}

	m.config.Logger.WithFields(logrus.Fields{
		"uri":     t.uri,
		"outcome": res.Outcome.String(),
		"hits":    len(res.Hits),
	}).Debug("search finished")

	for _, l := range listeners {
		if res.Outcome == task.OutcomeCompleted {
			l.SearchCompleted(res)
		} else {
			l.SearchFailed(res)
		}
	}
}

// Status returns a snapshot of the status of id.
func (m *Manager) Status(id dict.ID) status.Kind {
	return m.statuses.Get(id).Kind()
}

// Stats returns a snapshot of the manager statistics.
func (m *Manager) Stats() task.Snapshot {
	return m.stats.Snapshot()
}

// ShutdownNow stops accepting requests, interrupts running searches and
// waits up to timeout for the workers to exit. Searches that never started
// finish with an interrupted result.
func (m *Manager) ShutdownNow(ctx context.Context, timeout time.Duration) error {
	return m.life.Shutdown(func() error {
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		dropped, err := m.exec.ShutdownNow(shutdownCtx)
		for _, r := range dropped {
			r.(*searchTask).interrupt(task.ErrNotAccepting)
		}

		m.config.Logger.WithField("dropped_tasks", len(dropped)).Info("search manager shut down")

		if err != nil {
			return task.ShutdownErr(err)
		}

		m.statuses.Close()

		return nil
	})
}
