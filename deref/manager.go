package deref

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/status"
	"github.com/mycok/uLookup/task"
)

type (
	derefLease = status.Lease[dict.ID, *derefTask, *Result]
)

// Manager schedules dereferencing tasks. At most one task per identifier is
// in flight at any time.
type Manager struct {
	config   Config
	statuses *status.Index[dict.ID, *derefTask, *Result]
	exec     *task.Executor
	life     task.Lifecycle
	stats    task.Stats
}

// NewManager creates and returns a fully configured dereferencing manager.
func NewManager(config Config) (*Manager, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("deref manager: config validation failed: %w", err)
	}

	return &Manager{
		config:   config,
		statuses: status.NewIndex[dict.ID, *derefTask, *Result](),
		exec:     task.NewExecutor(config.NumOfWorkers),
	}, nil
}

// Dictionary returns the dictionary identifiers are interned in.
func (m *Manager) Dictionary() *dict.Dictionary {
	return m.config.Dictionary
}

// DereferenceableID returns the identifier of the document that has to be
// retrieved to dereference id: the URI without its fragment. It returns
// dict.Unknown for identifiers that can not be dereferenced.
func (m *Manager) DereferenceableID(id dict.ID) dict.ID {
	uri, ok := m.config.Dictionary.URI(id)
	if !ok {
		return dict.Unknown
	}

	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dict.Unknown
	}

	if u.Fragment == "" && u.RawFragment == "" && u.String() == uri {
		return id
	}

	u.Fragment = ""
	u.RawFragment = ""

	return m.config.Dictionary.Intern(u.String())
}

// RequestDereferencing requests the dereferencing of id with priority p.
//
// If the status of id is Finished and rederef (if given) does not ask for a
// new retrieval, the cached result is returned. Otherwise the request is
// merged into the pending task for id, or a new task is queued, and a nil
// result is returned; listener is then notified once the task finishes.
// Analyzers inspect the retrieved document before importer stores it.
//
// RequestDereferencing fails with task.ErrNotAccepting when the manager is
// shutting down and with task.ErrBadArgument when id is not dereferenceable.
func (m *Manager) RequestDereferencing(
	ctx context.Context,
	id dict.ID,
	p task.Priority,
	rederef decision.Policy,
	importer Importer,
	analyzer Analyzer,
	listener Listener,
) (*Result, error) {

	if err := m.life.Admit(); err != nil {
		return nil, fmt.Errorf("request dereferencing: %w", err)
	}

	if id == dict.Unknown || m.DereferenceableID(id) != id {
		return nil, fmt.Errorf("request dereferencing of %d: %w", id, task.ErrBadArgument)
	}

	m.stats.Requested()

	var cached *Result
	err := m.statuses.WithLocked(ctx, id, func(lease *derefLease) error {
		current := lease.Status()

		switch current.Kind() {
		case status.KindPending:
			t, _ := current.Task()
			t.attach(listener, analyzer)

			if p > t.priority && m.exec.Raise(t.handle, p) {
				t.priority = p
			}

			return nil

		case status.KindFinished:
			res, finishedAt, _ := current.Result()
			if rederef == nil || !rederef(decision.Finished{
				ID: id, Outcome: res.Outcome, FinishedAt: finishedAt,
			}) {
				cached = res

				return nil
			}
		}

		uri, _ := m.config.Dictionary.URI(id)
		t := newDerefTask(m, id, uri, importer)
		t.attach(listener, analyzer)

		if err := lease.Update(status.Pending[*derefTask, *Result](t)); err != nil {
			return err
		}

		handle, err := m.exec.Submit(t, p)
		if err != nil {
			// Shutdown started after admission; restore the previous status.
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
		return nil, fmt.Errorf("request dereferencing of %d: %w", id, err)
	}

	return cached, nil
}

// finish records the result of t and notifies its listeners. Results for
// an identifier that is no longer pending with t are discarded.
func (m *Manager) finish(t *derefTask, res *Result) {
	var listeners []Listener

	err := m.statuses.WithLocked(context.Background(), t.id, func(lease *derefLease) error {
		current, ok := lease.Status().Task()
		if !ok || current != t {
			m.config.Logger.WithFields(logrus.Fields{
				"uri":    t.uri,
				"status": lease.Status().Kind().String(),
			}).Warn("discarding result of a task that is not pending")

			return nil
		}

		m.stats.Record(res.Outcome, res.QueueTime, res.ExecTime)
		listeners = t.detachListeners()

		return lease.Update(status.Finished[*derefTask, *Result](res, m.config.Clock.Now()))
	})
	if err != nil {
		m.config.Logger.WithFields(logrus.Fields{
			"uri": t.uri,
			"err": err,
		}).Error("unable to record dereferencing result")
	}

	m.config.Logger.WithFields(logrus.Fields{
		"uri":       t.uri,
		"outcome":   res.Outcome.String(),
		"exec_time": res.ExecTime.String(),
	}).Debug("dereferencing finished")

	for _, l := range listeners {
		if res.Outcome == task.OutcomeCompleted {
			l.DereferencingCompleted(res)
		} else {
			l.DereferencingFailed(res)
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

// ShutdownNow stops accepting requests, interrupts running tasks and waits
// up to timeout for the workers to exit. Tasks that never started finish
// with an interrupted result. A shutdown that times out or is cancelled
// through ctx leaves the manager permanently failed.
func (m *Manager) ShutdownNow(ctx context.Context, timeout time.Duration) error {
	return m.life.Shutdown(func() error {
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		dropped, err := m.exec.ShutdownNow(shutdownCtx)
		for _, r := range dropped {
			r.(*derefTask).interrupt(task.ErrNotAccepting)
		}

		m.config.Logger.WithField("dropped_tasks", len(dropped)).Info("dereferencing manager shut down")

		if err != nil {
			return task.ShutdownErr(err)
		}

		m.statuses.Close()

		return nil
	})
}
