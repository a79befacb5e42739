/*
	status package provides a locked status index: a concurrency-safe mapping
	from keys to the state of the work associated with them. The index is
	owned by a single goroutine which serves every read, lock, update and
	unlock request, so "check the status and decide what to do" sequences
	are atomic per key without callers sharing any mutex.
*/

package status

import (
	"fmt"
	"time"
)

// Kind tags the variant held by a Status.
type Kind uint8

const (
	// KindUnknown is the status of keys no work was ever requested for.
	KindUnknown Kind = iota

	// KindPending is the status of keys whose work is in flight.
	KindPending

	// KindFinished is the status of keys whose work produced a result.
	KindFinished
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindPending:
		return "pending"
	case KindFinished:
		return "finished"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Status is the state of the work associated with a key. P is the type of
// the in-flight task and R the type of its result. The zero value is the
// Unknown status.
type Status[P, R any] struct {
	kind       Kind
	task       P
	result     R
	finishedAt time.Time
}

// Pending returns a status for in-flight work performed by task.
func Pending[P, R any](task P) Status[P, R] {
	return Status[P, R]{kind: KindPending, task: task}
}

// Finished returns a status for work that produced result at finishedAt.
func Finished[P, R any](result R, finishedAt time.Time) Status[P, R] {
	return Status[P, R]{kind: KindFinished, result: result, finishedAt: finishedAt}
}

// Kind returns the variant held by the status.
func (s Status[P, R]) Kind() Kind {
	return s.kind
}

// Task returns the in-flight task of a Pending status.
func (s Status[P, R]) Task() (P, bool) {
	return s.task, s.kind == KindPending
}

// Result returns the result and finish time of a Finished status.
func (s Status[P, R]) Result() (R, time.Time, bool) {
	return s.result, s.finishedAt, s.kind == KindFinished
}
