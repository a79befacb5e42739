package deref

import (
	"time"

	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

// Result is the outcome of a dereferencing task. Document and Discoveries
// are only set for task.OutcomeCompleted; Err is only set for
// task.OutcomeFailed and task.OutcomeInterrupted.
type Result struct {
	ID      dict.ID
	URI     string
	Outcome task.Outcome
	Err     error

	// Time spent waiting for a worker and time spent executing.
	QueueTime time.Duration
	ExecTime  time.Duration

	Document    *Document
	Discoveries []Discovery
}

// Redirect returns the target of a redirect, if the dereferenced URI
// redirected.
func (r *Result) Redirect() (dict.ID, bool) {
	for _, d := range r.Discoveries {
		if d.Kind == DiscoveryRedirect {
			return d.ID, true
		}
	}

	return dict.Unknown, false
}
