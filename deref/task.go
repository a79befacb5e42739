package deref

import (
	"context"
	"sync"
	"time"

	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

// derefTask dereferences a single URI on behalf of every request that was
// merged into it.
type derefTask struct {
	id          dict.ID
	uri         string
	submittedAt time.Time
	importer    Importer
	mgr         *Manager

	// Set under the status lock right after submission.
	handle   *task.Handle
	priority task.Priority

	mu        sync.Mutex
	listeners []Listener
	analyzers []Analyzer
	notifying bool
}

func newDerefTask(
	mgr *Manager, id dict.ID, uri string, importer Importer,
) *derefTask {

	if importer == nil {
		importer = NopImporter{}
	}

	return &derefTask{
		id:          id,
		uri:         uri,
		submittedAt: mgr.config.Clock.Now(),
		importer:    importer,
		mgr:         mgr,
	}
}

// attach registers a listener and an analyzer unless they are already
// registered. Nil values are ignored.
func (t *derefTask) attach(listener Listener, analyzer Analyzer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if listener != nil && !t.notifying && !containsListener(t.listeners, listener) {
		t.listeners = append(t.listeners, listener)
	}

	if analyzer != nil && !containsAnalyzer(t.analyzers, analyzer) {
		t.analyzers = append(t.analyzers, analyzer)
	}
}

// detachListeners returns the registered listeners. Listeners attached
// afterwards are ignored.
func (t *derefTask) detachListeners() []Listener {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.notifying = true

	return t.listeners
}

func (t *derefTask) currentAnalyzers() []Analyzer {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Analyzer(nil), t.analyzers...)
}

// Run implements task.Runnable.
func (t *derefTask) Run(ctx context.Context) {
	clk := t.mgr.config.Clock
	startedAt := clk.Now()

	res := &Result{
		ID:        t.id,
		URI:       t.uri,
		QueueTime: startedAt.Sub(t.submittedAt),
	}

	doc, err := t.mgr.config.Dereferencer.Dereference(ctx, t.uri)
	if err == nil {
		for _, a := range t.currentAnalyzers() {
			a.Analyze(doc)
		}

		err = t.importer.Import(ctx, doc)
	}

	res.ExecTime = clk.Now().Sub(startedAt)

	switch {
	case err == nil:
		res.Outcome = task.OutcomeCompleted
		res.Document = doc
		res.Discoveries = t.discoveries(doc)
	case ctx.Err() != nil:
		res.Outcome = task.OutcomeInterrupted
		res.Err = err
	default:
		res.Outcome = task.OutcomeFailed
		res.Err = err
	}

	t.mgr.finish(t, res)
}

// interrupt finishes a task that never got to run.
func (t *derefTask) interrupt(cause error) {
	t.mgr.finish(t, &Result{
		ID:        t.id,
		URI:       t.uri,
		Outcome:   task.OutcomeInterrupted,
		Err:       cause,
		QueueTime: t.mgr.config.Clock.Now().Sub(t.submittedAt),
	})
}

// discoveries interns the redirect target and the links of doc.
func (t *derefTask) discoveries(doc *Document) []Discovery {
	dictionary := t.mgr.config.Dictionary

	if doc.RedirectTo != "" {
		return []Discovery{{ID: dictionary.Intern(doc.RedirectTo), Kind: DiscoveryRedirect}}
	}

	var (
		found = make([]Discovery, 0, len(doc.Links))
		seen  = make(map[dict.ID]struct{}, len(doc.Links))
	)

	for _, l := range doc.Links {
		id := dictionary.Intern(l.URI)
		if id == dict.Unknown || id == t.id {
			continue
		}

		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}

		kind := l.Kind
		if kind == DiscoveryUnknown {
			kind = DiscoveryLink
		}

		found = append(found, Discovery{ID: id, Kind: kind})
	}

	return found
}

func containsListener(list []Listener, l Listener) bool {
	for _, existing := range list {
		if existing == l {
			return true
		}
	}

	return false
}

func containsAnalyzer(list []Analyzer, a Analyzer) bool {
	for _, existing := range list {
		if existing == a {
			return true
		}
	}

	return false
}
