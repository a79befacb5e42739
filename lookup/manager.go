/*
	lookup package resolves look-up requests into bounded recursive crawls.
	A look-up dereferences its root URI, follows redirects, links, search
	hits and see-also references up to a step limit, and reports a single
	terminal outcome once all of that work settled or its timeout elapsed.
*/

package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/status"
	"github.com/mycok/uLookup/task"
)

type lookupLease = status.Lease[dict.ID, *lookupTask, *Result]

// Manager schedules look-ups. At most one look-up per identifier is in
// flight at any time.
type Manager struct {
	config   Config
	statuses *status.Index[dict.ID, *lookupTask, *Result]
	exec     *task.Executor
	life     task.Lifecycle
	stats    task.Stats

	maxStepsReached uint64
}

// NewManager creates and returns a fully configured look-up manager.
func NewManager(config Config) (*Manager, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("lookup manager: config validation failed: %w", err)
	}

	return &Manager{
		config:   config,
		statuses: status.NewIndex[dict.ID, *lookupTask, *Result](),
		exec:     task.NewExecutor(config.NumOfWorkers),
	}, nil
}

// Dictionary returns the dictionary identifiers are interned in.
func (m *Manager) Dictionary() *dict.Dictionary {
	return m.config.Dictionary
}

// RequestLookUp requests a look-up of id with priority p.
//
// A finished look-up is returned from the cache unless relookup (if given)
// asks for a new one. Otherwise the request is merged into the pending
// look-up of id, or a new one is queued, and a nil result is returned;
// listener is then notified once the look-up finishes. Retrieved documents
// are stored with importer, or with the configured importer if it is nil.
//
// RequestLookUp fails with task.ErrNotAccepting when the manager is shutting
// down and with task.ErrBadArgument when id is not interned.
func (m *Manager) RequestLookUp(
	ctx context.Context,
	id dict.ID,
	p task.Priority,
	relookup decision.Policy,
	importer deref.Importer,
	listener Listener,
) (*Result, error) {

	if err := m.life.Admit(); err != nil {
		return nil, fmt.Errorf("request look-up: %w", err)
	}

	uri, ok := m.config.Dictionary.URI(id)
	if !ok {
		return nil, fmt.Errorf("request look-up of %d: %w", id, task.ErrBadArgument)
	}

	m.stats.Requested()

	var cached *Result
	err := m.statuses.WithLocked(ctx, id, func(lease *lookupLease) error {
		current := lease.Status()

		switch current.Kind() {
		case status.KindPending:
			t, _ := current.Task()
			t.attach(listener)

			if p > t.currentPriority() && m.exec.Raise(t.handle, p) {
				t.setPriority(p)
			}

			return nil

		case status.KindFinished:
			res, finishedAt, _ := current.Result()
			if relookup == nil || !relookup(decision.Finished{
				ID: id, Outcome: res.Outcome, FinishedAt: finishedAt,
			}) {
				cached = res

				return nil
			}
		}

		if importer == nil {
			importer = m.config.Settings.Importer
		}

		t := newLookupTask(m, id, uri, p, importer)
		t.attach(listener)

		if err := lease.Update(status.Pending[*lookupTask, *Result](t)); err != nil {
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

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("request look-up of %d: %w", id, err)
	}

	return cached, nil
}

func (m *Manager) finish(t *lookupTask, res *Result) {
	var listeners []Listener

	err := m.statuses.WithLocked(context.Background(), t.id, func(lease *lookupLease) error {
		current, ok := lease.Status().Task()
		if !ok || current != t {
			m.config.Logger.WithFields(logrus.Fields{
				"uri":    t.uri,
				"status": lease.Status().Kind().String(),
			}).Warn("discarding result of a look-up that is not pending")

			return nil
		}

		m.stats.Record(res.Outcome, res.QueueTime, res.ExecTime)
		atomic.AddUint64(&m.maxStepsReached, uint64(res.MaxStepsReached))
		listeners = t.detachListeners()

		return lease.Update(status.Finished[*lookupTask, *Result](res, m.config.Clock.Now()))
	})
	if err != nil {
		m.config.Logger.WithFields(logrus.Fields{
			"uri": t.uri,
			"err": err,
		}).Error("unable to record look-up result")
	}

	m.config.Logger.WithFields(logrus.Fields{
		"uri":               t.uri,
		"outcome":           res.Outcome.String(),
		"successful":        res.Successful,
		"failed":            res.Failed,
		"max_steps_reached": res.MaxStepsReached,
		"exec_time":         res.ExecTime.String(),
	}).Info("look-up finished")

	for _, l := range listeners {
		if res.Outcome == task.OutcomeCompleted {
			l.LookUpCompleted(res)
		} else {
			l.LookUpFailed(res)
		}
	}
}

// Status returns a snapshot of the status of id.
func (m *Manager) Status(id dict.ID) status.Kind {
	return m.statuses.Get(id).Kind()
}

// Stats returns a snapshot of the manager statistics.
func (m *Manager) Stats() Stats {
	stats := Stats{
		Snapshot:        m.stats.Snapshot(),
		MaxStepsReached: atomic.LoadUint64(&m.maxStepsReached),
		Deref:           m.config.Settings.Dereferencing.Stats(),
	}

	if search := m.config.Settings.Search; search != nil {
		snap := search.Stats()
		stats.Search = &snap
	}

	return stats
}

// ShutdownNow shuts down the look-up workers, the dereferencing manager and
// the search manager (if any). Each of them gets an equal share of
// timeout. Look-ups that never started finish with an interrupted result.
// The returned error aggregates every failure; the manager is permanently
// failed if there was any.
func (m *Manager) ShutdownNow(ctx context.Context, timeout time.Duration) error {
	return m.life.Shutdown(func() error {
		settings := m.config.Settings

		divisor := time.Duration(2)
		if settings.Search != nil {
			divisor = 3
		}
		share := timeout / divisor

		// Look-ups are stopped first so that they report an interrupted
		// outcome instead of settling on interrupted dereferencings.
		shutdownCtx, cancel := context.WithTimeout(ctx, share)
		defer cancel()

		var err error
		dropped, execErr := m.exec.ShutdownNow(shutdownCtx)
		for _, r := range dropped {
			r.(*lookupTask).interrupt(task.ErrNotAccepting)
		}

		m.config.Logger.WithField("dropped_tasks", len(dropped)).Info("look-up manager shut down")

		if execErr != nil {
			err = multierror.Append(err, task.ShutdownErr(execErr))
		}

		if derefErr := settings.Dereferencing.ShutdownNow(ctx, share); derefErr != nil {
			err = multierror.Append(err, fmt.Errorf("dereferencing manager: %w", derefErr))
		}

		if settings.Search != nil {
			if searchErr := settings.Search.ShutdownNow(ctx, share); searchErr != nil {
				err = multierror.Append(err, fmt.Errorf("search manager: %w", searchErr))
			}
		}

		if err != nil {
			if errors.Is(err, task.ErrShutdownTimedOut) {
				return err
			}

			return &task.ShutdownError{Cause: err}
		}

		m.statuses.Close()

		return nil
	})
}
