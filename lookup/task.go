package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
	"github.com/mycok/uLookup/urisearch"
)

// Static and compile-time checks to ensure lookupTask implements the
// listener interfaces of the managers it delegates to.
var (
	_ deref.Listener     = (*lookupTask)(nil)
	_ urisearch.Listener = (*lookupTask)(nil)
	_ deref.Analyzer     = seeAlsoAnalyzer{}
)

// lookupTask dereferences its root URI and, recursively, everything that
// is discovered from it. Completion callbacks arrive on the worker
// goroutines of the delegate managers; all bookkeeping is guarded by bk.
type lookupTask struct {
	id          dict.ID
	uri         string
	submittedAt time.Time
	importer    deref.Importer
	mgr         *Manager

	// Set under the status lock right after submission.
	handle *task.Handle

	mu        sync.Mutex
	priority  task.Priority
	listeners []Listener
	notifying bool

	// ctx is the context the task runs with. It is set before any request
	// is made on behalf of the task.
	ctx    context.Context
	rootID dict.ID

	bk              sync.Mutex
	pending         map[dict.ID]int // step of every in-flight dereferencing
	derefs          map[dict.ID]*deref.Result
	successful      int
	failed          int
	maxStepsReached int
	searchPending   bool
	kickedOff       bool
	stopped         bool
	settled         chan struct{}
	settledClosed   bool
}

func newLookupTask(
	mgr *Manager, id dict.ID, uri string, p task.Priority, importer deref.Importer,
) *lookupTask {

	return &lookupTask{
		id:          id,
		uri:         uri,
		submittedAt: mgr.config.Clock.Now(),
		importer:    importer,
		mgr:         mgr,
		priority:    p,
		pending:     make(map[dict.ID]int),
		derefs:      make(map[dict.ID]*deref.Result),
		settled:     make(chan struct{}),
	}
}

func (t *lookupTask) attach(listener Listener) {
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

func (t *lookupTask) detachListeners() []Listener {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.notifying = true

	return t.listeners
}

func (t *lookupTask) currentPriority() task.Priority {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.priority
}

func (t *lookupTask) setPriority(p task.Priority) {
	t.mu.Lock()
	t.priority = p
	t.mu.Unlock()
}

func (t *lookupTask) logger() *logrus.Entry {
	return t.mgr.config.Logger.WithField("lookup", t.uri)
}

// Run implements task.Runnable.
func (t *lookupTask) Run(ctx context.Context) {
	clk := t.mgr.config.Clock
	startedAt := clk.Now()
	timeout := clk.After(t.mgr.config.Settings.Timeout)

	t.ctx = ctx

	res := &Result{
		ID:        t.id,
		URI:       t.uri,
		QueueTime: startedAt.Sub(t.submittedAt),
	}

	if err := t.kickOff(ctx); err != nil {
		t.stop()

		res.Outcome = task.OutcomeFailed
		if ctx.Err() != nil {
			res.Outcome = task.OutcomeInterrupted
		}
		res.Err = err
		res.ExecTime = clk.Now().Sub(startedAt)
		t.mgr.finish(t, res)

		return
	}

	select {
	case <-ctx.Done():
		// Partial results of an interrupted look-up are dropped.
		t.stop()
		res.Outcome = task.OutcomeInterrupted
		res.Err = ctx.Err()
	case <-t.settled:
		res.Outcome = task.OutcomeCompleted
		t.collect(res)
	case <-timeout:
		select {
		case <-t.settled:
			res.Outcome = task.OutcomeCompleted
		default:
			res.Outcome = task.OutcomeTimedOut
		}
		t.collect(res)
	}

	res.ExecTime = clk.Now().Sub(startedAt)
	t.mgr.finish(t, res)
}

// interrupt finishes a look-up that never got to run.
func (t *lookupTask) interrupt(cause error) {
	t.mgr.finish(t, &Result{
		ID:        t.id,
		URI:       t.uri,
		Outcome:   task.OutcomeInterrupted,
		Err:       cause,
		QueueTime: t.mgr.config.Clock.Now().Sub(t.submittedAt),
	})
}

// kickOff requests the dereferencing of the root, the search for it and
// the dereferencing of its known see-also references. The look-up can not
// settle before kickOff returns.
func (t *lookupTask) kickOff(ctx context.Context) error {
	settings := t.mgr.config.Settings

	t.rootID = settings.Dereferencing.DereferenceableID(t.id)

	if err := t.dereferenceRecursively(ctx, t.id, 0); err != nil {
		return err
	}

	if settings.Search != nil {
		t.bk.Lock()
		t.searchPending = true
		t.bk.Unlock()

		res, err := settings.Search.RequestSearch(ctx, t.id, t.currentPriority(), settings.SearchAgain, t)
		switch {
		case err != nil:
			if !errors.Is(err, task.ErrNotAccepting) {
				t.logger().WithField("err", err).Warn("unable to request search")
			}
			t.searchDone()
		case res != nil:
			t.handleSearch(res)
		}
	}

	if seeAlso := settings.SeeAlso; seeAlso != nil && seeAlso.Dataset != nil {
		t.followDataset(ctx, seeAlso)
	}

	t.bk.Lock()
	t.kickedOff = true
	t.checkSettledLocked()
	t.bk.Unlock()

	return nil
}

func (t *lookupTask) followDataset(ctx context.Context, seeAlso *SeeAlso) {
	uri := t.uri
	if t.rootID != dict.Unknown {
		uri, _ = t.mgr.config.Dictionary.URI(t.rootID)
	}

	related, err := seeAlso.Dataset.Related(ctx, uri, seeAlso.Relation)
	if err != nil {
		t.logger().WithField("err", err).Warn("unable to scan see-also dataset")

		return
	}

	for _, ref := range related {
		t.logger().WithField("ref", ref).Debug("following see-also reference")
		t.follow(ctx, t.mgr.config.Dictionary.Intern(ref), 0)
	}
}

// follow is dereferenceRecursively for URIs other than the root. Errors
// are logged instead of failing the look-up.
func (t *lookupTask) follow(ctx context.Context, id dict.ID, step int) {
	if err := t.dereferenceRecursively(ctx, id, step); err != nil {
		t.logger().WithFields(logrus.Fields{
			"id":  id,
			"err": err,
		}).Warn("unable to request dereferencing")
	}
}

// dereferenceRecursively requests the dereferencing of id, discovered at
// step, unless the step limit is reached or this look-up already
// dereferences it. The only errors returned are those of the dereferencing
// manager other than task.ErrNotAccepting.
func (t *lookupTask) dereferenceRecursively(ctx context.Context, id dict.ID, step int) error {
	settings := t.mgr.config.Settings

	t.bk.Lock()
	if t.stopped {
		t.bk.Unlock()

		return nil
	}

	if step >= settings.MaxSteps {
		t.maxStepsReached++
		t.bk.Unlock()

		return nil
	}
	t.bk.Unlock()

	did := settings.Dereferencing.DereferenceableID(id)
	if did == dict.Unknown {
		t.logger().WithField("id", id).Debug("ignoring URI that can not be dereferenced")

		return nil
	}

	t.bk.Lock()
	if t.stopped {
		t.bk.Unlock()

		return nil
	}

	if _, done := t.derefs[did]; done {
		t.bk.Unlock()

		return nil
	}

	if current, inFlight := t.pending[did]; inFlight {
		// Downstream discoveries use the shortest known distance.
		if step < current {
			t.pending[did] = step
		}
		t.bk.Unlock()

		return nil
	}

	t.pending[did] = step
	t.bk.Unlock()

	res, err := settings.Dereferencing.RequestDereferencing(
		ctx, did, t.currentPriority(), settings.Rederef, t.importer, t.analyzer(), t,
	)
	if err != nil {
		t.bk.Lock()
		delete(t.pending, did)
		t.checkSettledLocked()
		t.bk.Unlock()

		// Expected while the system shuts down.
		if errors.Is(err, task.ErrNotAccepting) {
			t.logger().WithField("err", err).Debug("dereferencing request rejected")

			return nil
		}

		return err
	}

	if res != nil {
		// Analyzers only see documents retrieved for a request; a cached
		// root document is analyzed here instead.
		if did == t.rootID && res.Document != nil {
			if a := t.analyzer(); a != nil {
				a.Analyze(res.Document)
			}
		}

		t.handleDeref(res)
	}

	return nil
}

// handleDeref records a dereferencing result and follows what it
// discovered. A redirect keeps the step of its source; every other
// discovery is one step further.
func (t *lookupTask) handleDeref(res *deref.Result) {
	t.bk.Lock()
	if t.stopped {
		t.bk.Unlock()

		return
	}

	step, inFlight := t.pending[res.ID]
	if !inFlight {
		t.bk.Unlock()
		t.logger().WithField("uri", res.URI).Warn("ignoring unexpected dereferencing result")

		return
	}

	t.derefs[res.ID] = res
	if res.Outcome == task.OutcomeCompleted {
		t.successful++
	} else {
		t.failed++
	}
	t.bk.Unlock()

	if res.Outcome == task.OutcomeCompleted {
		for _, d := range res.Discoveries {
			next := step + 1

			if d.Kind == deref.DiscoveryRedirect {
				if d.ID == dict.Unknown {
					panic(fmt.Sprintf("lookup: redirect of %s resolved to the unknown identifier", res.URI))
				}
				next = step
			}

			t.follow(t.ctx, d.ID, next)
		}
	} else {
		t.logger().WithFields(logrus.Fields{
			"uri":     res.URI,
			"outcome": res.Outcome.String(),
			"err":     res.Err,
		}).Debug("dereferencing did not complete")
	}

	t.bk.Lock()
	delete(t.pending, res.ID)
	t.checkSettledLocked()
	t.bk.Unlock()
}

// handleSearch follows the hits of the root search at step 0.
func (t *lookupTask) handleSearch(res *urisearch.Result) {
	if res.ID != t.id {
		t.logger().WithField("uri", res.URI).Warn("ignoring unexpected search result")

		return
	}

	t.bk.Lock()
	proceed := !t.stopped && t.searchPending
	t.bk.Unlock()

	if !proceed {
		return
	}

	if res.Outcome == task.OutcomeCompleted {
		for _, d := range res.Discoveries() {
			t.follow(t.ctx, d.ID, 0)
		}
	} else {
		t.logger().WithFields(logrus.Fields{
			"outcome": res.Outcome.String(),
			"err":     res.Err,
		}).Debug("search did not complete")
	}

	t.searchDone()
}

func (t *lookupTask) searchDone() {
	t.bk.Lock()
	t.searchPending = false
	t.checkSettledLocked()
	t.bk.Unlock()
}

// checkSettledLocked closes the settled channel once all sub-work has
// finished. It must be called with bk held.
func (t *lookupTask) checkSettledLocked() {
	if t.settledClosed || !t.kickedOff || t.searchPending || len(t.pending) != 0 {
		return
	}

	t.settledClosed = true
	close(t.settled)
}

// stop makes the task ignore every later callback and discards what was
// collected so far.
func (t *lookupTask) stop() {
	t.bk.Lock()
	t.stopped = true
	t.derefs = nil
	t.bk.Unlock()
}

// collect stops the task and copies what was collected into res.
func (t *lookupTask) collect(res *Result) {
	t.bk.Lock()
	defer t.bk.Unlock()

	t.stopped = true

	res.Derefs = make(map[dict.ID]*deref.Result, len(t.derefs))
	for id, r := range t.derefs {
		res.Derefs[id] = r
	}

	res.Successful = t.successful
	res.Failed = t.failed
	res.MaxStepsReached = t.maxStepsReached
}

func (t *lookupTask) analyzer() deref.Analyzer {
	if t.mgr.config.Settings.SeeAlso == nil {
		return nil
	}

	return seeAlsoAnalyzer{task: t}
}

// DereferencingCompleted implements deref.Listener.
func (t *lookupTask) DereferencingCompleted(res *deref.Result) { t.handleDeref(res) }

// DereferencingFailed implements deref.Listener.
func (t *lookupTask) DereferencingFailed(res *deref.Result) { t.handleDeref(res) }

// SearchCompleted implements urisearch.Listener.
func (t *lookupTask) SearchCompleted(res *urisearch.Result) { t.handleSearch(res) }

// SearchFailed implements urisearch.Listener.
func (t *lookupTask) SearchFailed(res *urisearch.Result) { t.handleSearch(res) }

// seeAlsoAnalyzer follows the see-also references that the root document
// declares with the configured relation.
type seeAlsoAnalyzer struct {
	task *lookupTask
}

// Analyze implements deref.Analyzer.
func (a seeAlsoAnalyzer) Analyze(doc *deref.Document) {
	t := a.task
	dictionary := t.mgr.config.Dictionary

	if id, ok := dictionary.Lookup(doc.URI); !ok || id != t.rootID {
		return
	}

	relation := t.mgr.config.Settings.SeeAlso.Relation
	for _, l := range doc.Links {
		if !strings.EqualFold(l.Relation, relation) {
			continue
		}

		t.logger().WithField("ref", l.URI).Debug("following see-also reference")
		t.follow(t.ctx, dictionary.Intern(l.URI), 0)
	}
}
