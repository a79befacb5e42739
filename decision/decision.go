/*
	decision package provides the policies that decide whether finished work
	should be done again. Policies are plain function values; the managers
	consult them whenever a request arrives for an identifier whose work has
	already finished.
*/

package decision

import (
	"time"

	"github.com/juju/clock"

	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/task"
)

// Finished describes work that has already produced a result.
type Finished struct {
	ID         dict.ID
	Outcome    task.Outcome
	FinishedAt time.Time
}

// Policy reports whether the finished work should be done again.
type Policy func(Finished) bool

// Thresholds holds the minimum age a finished result must reach before it
// is redone, chosen by the outcome of the previous run.
type Thresholds struct {
	Completed   time.Duration
	TimedOut    time.Duration
	Interrupted time.Duration
	Failed      time.Duration
}

// Uniform returns thresholds that use d for every outcome.
func Uniform(d time.Duration) Thresholds {
	return Thresholds{Completed: d, TimedOut: d, Interrupted: d, Failed: d}
}

// For returns the threshold that applies to outcome o.
func (t Thresholds) For(o task.Outcome) time.Duration {
	switch o {
	case task.OutcomeTimedOut:
		return t.TimedOut
	case task.OutcomeInterrupted:
		return t.Interrupted
	case task.OutcomeFailed:
		return t.Failed
	default:
		return t.Completed
	}
}

var (
	// RelookupThresholds are the default thresholds for look-ups.
	RelookupThresholds = Thresholds{
		Completed:   time.Hour,
		TimedOut:    2 * time.Minute,
		Interrupted: 0,
		Failed:      30 * time.Second,
	}

	// RederefThresholds are the default thresholds for dereferencing.
	RederefThresholds = Uniform(24 * time.Hour)

	// SearchAgainThresholds are the default thresholds for URI searches.
	SearchAgainThresholds = Uniform(72 * time.Hour)
)

// AfterElapsed returns a policy that redoes work once the time elapsed since
// it finished reaches the threshold for its outcome.
func AfterElapsed(clk clock.Clock, t Thresholds) Policy {
	return func(f Finished) bool {
		return clk.Now().Sub(f.FinishedAt) >= t.For(f.Outcome)
	}
}

// DefaultRelookup returns the default look-up policy.
func DefaultRelookup(clk clock.Clock) Policy {
	return AfterElapsed(clk, RelookupThresholds)
}

// DefaultRederef returns the default dereferencing policy.
func DefaultRederef(clk clock.Clock) Policy {
	return AfterElapsed(clk, RederefThresholds)
}

// DefaultSearchAgain returns the default URI search policy.
func DefaultSearchAgain(clk clock.Clock) Policy {
	return AfterElapsed(clk, SearchAgainThresholds)
}

// Always returns a policy that always redoes finished work.
func Always() Policy {
	return func(Finished) bool { return true }
}

// Never returns a policy that never redoes finished work.
func Never() Policy {
	return func(Finished) bool { return false }
}
