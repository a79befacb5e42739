package task

import "fmt"

// Outcome tags the terminal state of a finished unit of work. Results of
// every manager carry exactly one outcome.
type Outcome uint8

const (
	// OutcomeCompleted marks work that ran to completion.
	OutcomeCompleted Outcome = iota

	// OutcomeTimedOut marks work that hit its deadline. Results with this
	// outcome keep whatever was collected before the deadline.
	OutcomeTimedOut

	// OutcomeInterrupted marks work that was cancelled. Results with this
	// outcome carry no payload.
	OutcomeInterrupted

	// OutcomeFailed marks work that returned an error.
	OutcomeFailed
)

// String returns the lower-case name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}
