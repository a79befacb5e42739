package lookup

import (
	"sort"
	"time"

	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

// Result is the outcome of a look-up.
//
// Completed and timed-out look-ups carry the dereferencing results that were
// collected and the counters below. Interrupted look-ups carry none of them.
// Failed look-ups carry Err.
type Result struct {
	ID      dict.ID
	URI     string
	Outcome task.Outcome
	Err     error

	QueueTime time.Duration
	ExecTime  time.Duration

	// Dereferencing results keyed by the dereferenced identifier.
	Derefs map[dict.ID]*deref.Result

	Successful      int
	Failed          int
	MaxStepsReached int
}

// Dereferenced returns the sorted identifiers of the URIs that were
// dereferenced successfully.
func (r *Result) Dereferenced() []dict.ID {
	var ids []dict.ID
	for id, res := range r.Derefs {
		if res.Outcome == task.OutcomeCompleted {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
