package task

import (
	"fmt"
	"sync"
)

// State is the shutdown state of a manager.
type State uint8

const (
	// StateRunning is the state of a manager that accepts requests.
	StateRunning State = iota

	// StateShuttingDown is the state of a manager that is shutting down or
	// has been shut down cleanly.
	StateShuttingDown

	// StateFailed is the state of a manager whose shutdown failed. It is
	// permanent.
	StateFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Lifecycle guards admission of new requests and serializes shutdown. The
// zero value is a running lifecycle.
type Lifecycle struct {
	mu    sync.Mutex
	state State
	done  chan struct{}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Admit returns ErrNotAccepting unless the lifecycle is running.
func (l *Lifecycle) Admit() error {
	if l.State() != StateRunning {
		return ErrNotAccepting
	}

	return nil
}

// Shutdown runs stop exactly once and records its result. Concurrent and
// later callers wait for the first call to finish; they get nil if it
// succeeded and ErrShutdownFailed otherwise. If stop returns an error the
// lifecycle moves to StateFailed for good.
func (l *Lifecycle) Shutdown(stop func() error) error {
	l.mu.Lock()

	switch l.state {
	case StateFailed:
		l.mu.Unlock()

		return ErrShutdownFailed
	case StateShuttingDown:
		done := l.done
		l.mu.Unlock()
		<-done

		if l.State() == StateFailed {
			return ErrShutdownFailed
		}

		return nil
	}

	l.state = StateShuttingDown
	l.done = make(chan struct{})
	l.mu.Unlock()

	err := stop()

	l.mu.Lock()
	if err != nil {
		l.state = StateFailed
	}
	close(l.done)
	l.mu.Unlock()

	return err
}
