package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by every operation called before Initialize.
	ErrNotInitialized = errors.New("tracking: session not initialized")

	// ErrAlreadyInitialized is returned when Initialize runs twice.
	ErrAlreadyInitialized = errors.New("tracking: session already initialized")

	// ErrNoStorage is returned when Initialize gets an empty storage location.
	ErrNoStorage = errors.New("tracking: no storage location")

	// ErrStateConflict matches every *StateError.
	ErrStateConflict = errors.New("tracking: state conflict")

	// ErrSnapshotLoad wraps any snapshot read failure other than a missing file.
	ErrSnapshotLoad = errors.New("tracking: load snapshot")

	// ErrNoDriver is returned by NewTracker in builds without the SQLite driver.
	ErrNoDriver = errors.New("tracking: sqlite driver not compiled in")
)

// StateError reports a lifecycle operation invoked from an incompatible state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s tracking not possible, current state: %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error { return ErrStateConflict }
