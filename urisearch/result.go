package urisearch

import (
	"time"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

// Result is the outcome of a search task. Hits is only set for
// task.OutcomeCompleted.
type Result struct {
	ID      dict.ID
	URI     string
	Outcome task.Outcome
	Err     error

	QueueTime time.Duration
	ExecTime  time.Duration

	// Identifiers of the documents found by the search, in the order the
	// query processor returned them.
	Hits []dict.ID
}

// Discoveries returns the hits tagged as search discoveries.
func (r *Result) Discoveries() []deref.Discovery {
	found := make([]deref.Discovery, len(r.Hits))
	for i, id := range r.Hits {
		found[i] = deref.Discovery{ID: id, Kind: deref.DiscoverySearchHit}
	}

	return found
}
