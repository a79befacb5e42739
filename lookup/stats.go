package lookup

import (
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/task"
)

// Stats is a snapshot of the look-up manager statistics along with those of
// the managers it delegates to.
type Stats struct {
	task.Snapshot

	// Sum of the step limit hits of every finished look-up.
	MaxStepsReached uint64

	Deref  task.Snapshot
	Search *task.Snapshot
}

// Fields renders the statistics as log fields.
func (s Stats) Fields() logrus.Fields {
	fields := s.Snapshot.Fields("lookup_")
	fields["lookup_max_steps_reached"] = s.MaxStepsReached

	for k, v := range s.Deref.Fields("deref_") {
		fields[k] = v
	}

	if s.Search != nil {
		for k, v := range s.Search.Fields("search_") {
			fields[k] = v
		}
	}

	return fields
}
