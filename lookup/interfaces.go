package lookup

import (
	"context"
	"time"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
	"github.com/mycok/uLookup/urisearch"
)

// Static and compile-time checks to ensure the managers of the deref and
// urisearch packages can be used by look-ups.
var (
	_ DerefManager  = (*deref.Manager)(nil)
	_ SearchManager = (*urisearch.Manager)(nil)
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/lookup SeeAlsoDataset,Listener

// DerefManager is implemented by dereferencing schedulers such as
// deref.Manager.
type DerefManager interface {
	DereferenceableID(id dict.ID) dict.ID
	RequestDereferencing(
		ctx context.Context,
		id dict.ID,
		p task.Priority,
		rederef decision.Policy,
		importer deref.Importer,
		analyzer deref.Analyzer,
		listener deref.Listener,
	) (*deref.Result, error)
	ShutdownNow(ctx context.Context, timeout time.Duration) error
	Stats() task.Snapshot
}

// SearchManager is implemented by search schedulers such as
// urisearch.Manager.
type SearchManager interface {
	RequestSearch(
		ctx context.Context,
		id dict.ID,
		p task.Priority,
		searchAgain decision.Policy,
		listener urisearch.Listener,
	) (*urisearch.Result, error)
	ShutdownNow(ctx context.Context, timeout time.Duration) error
	Stats() task.Snapshot
}

// SeeAlsoDataset is implemented by datasets that record which URIs a URI
// refers to with a given relation.
type SeeAlsoDataset interface {
	Related(ctx context.Context, uri, relation string) ([]string, error)
}

// Listener is implemented by objects that want to be notified about
// finished look-ups. Listener methods are invoked from worker goroutines
// and must not block indefinitely. Listeners must be comparable values.
type Listener interface {
	// LookUpCompleted is invoked with results whose outcome is
	// task.OutcomeCompleted.
	LookUpCompleted(*Result)

	// LookUpFailed is invoked with every other result.
	LookUpFailed(*Result)
}
