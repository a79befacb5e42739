/*
	task package provides the scheduling building blocks shared by the
	dereferencing, search and look-up managers: priorities, terminal outcome
	tags, a bounded priority executor, the shutdown lifecycle guard and
	aggregate statistics.
*/

package task

import (
	"fmt"
	"strings"
)

// Priority ranks queued work. Higher priorities are dispatched first.
type Priority uint8

const (
	// PriorityLow is used for background work such as periodic refreshes.
	PriorityLow Priority = iota

	// PriorityNormal is the default priority for requests.
	PriorityNormal

	// PriorityHigh is used for work a caller is actively waiting for.
	PriorityHigh
)

// String returns the lower-case name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

// ParsePriority parses the name of a priority as returned by String.
func ParsePriority(name string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return PriorityLow, nil
	case "", "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityNormal, fmt.Errorf("parse priority %q: %w", name, ErrBadArgument)
	}
}
