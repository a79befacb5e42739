package task

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats accumulates request and completion statistics for a manager. The
// zero value is ready to use.
type Stats struct {
	mu   sync.Mutex
	snap Snapshot
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Requests    uint64
	Finished    uint64
	Completed   uint64
	Failed      uint64
	TimedOut    uint64
	Interrupted uint64

	// Sum of the time finished work spent queued.
	QueueTime time.Duration

	// Sum of the time finished work spent executing.
	ExecTime time.Duration
}

// Requested counts an admitted request.
func (s *Stats) Requested() {
	s.mu.Lock()
	s.snap.Requests++
	s.mu.Unlock()
}

// Record counts a finished unit of work.
func (s *Stats) Record(o Outcome, queueTime, execTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Finished++
	s.snap.QueueTime += queueTime
	s.snap.ExecTime += execTime

	switch o {
	case OutcomeCompleted:
		s.snap.Completed++
	case OutcomeFailed:
		s.snap.Failed++
	case OutcomeTimedOut:
		s.snap.TimedOut++
	case OutcomeInterrupted:
		s.snap.Interrupted++
	}
}

// Snapshot returns a copy of the current statistics.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// AvgQueueTime returns the average time finished work spent queued.
func (s Snapshot) AvgQueueTime() time.Duration {
	if s.Finished == 0 {
		return 0
	}

	return s.QueueTime / time.Duration(s.Finished)
}

// AvgExecTime returns the average time finished work spent executing.
func (s Snapshot) AvgExecTime() time.Duration {
	if s.Finished == 0 {
		return 0
	}

	return s.ExecTime / time.Duration(s.Finished)
}

// Fields renders the snapshot as log fields whose keys start with prefix.
func (s Snapshot) Fields(prefix string) logrus.Fields {
	return logrus.Fields{
		prefix + "requests":       s.Requests,
		prefix + "finished":       s.Finished,
		prefix + "completed":      s.Completed,
		prefix + "failed":         s.Failed,
		prefix + "timed_out":      s.TimedOut,
		prefix + "interrupted":    s.Interrupted,
		prefix + "avg_queue_time": s.AvgQueueTime().String(),
		prefix + "avg_exec_time":  s.AvgExecTime().String(),
	}
}
