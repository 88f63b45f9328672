package tracking

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edouard-claude/printmeter/internal/odometer"
)

// DefaultInterval is how often the snapshot is written regardless of state.
const DefaultInterval = time.Second

// State is the lifecycle position of a Session.
type State int

const (
	Stopped State = iota
	Tracking
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Tracking:
		return "tracking"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome describes how a tracking cycle ended.
type Outcome string

const (
	OutcomeStopped   Outcome = "stopped"
	OutcomeDone      Outcome = "done"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Cycle is one finished start-to-stop run.
type Cycle struct {
	ID                 string
	StartedAt          time.Time
	EndedAt            time.Time
	Duration           time.Duration
	AxisTraveling      odometer.Vector3
	ExtrusionTraveling float64 // summed over all extruders
	Outcome            Outcome
}

// CycleRecorder receives every finished cycle.
type CycleRecorder interface {
	RecordCycle(c Cycle) error
}

// SessionOptions configures a Session. Zero values pick defaults.
type SessionOptions struct {
	Odometer odometer.Options
	Interval time.Duration
	Clock    Clock
	Recorder CycleRecorder
	Warnf    func(format string, args ...any)
}

type cycleStart struct {
	id        string
	startedAt time.Time
	axis      odometer.Vector3
	extrusion float64
	total     time.Duration
}

// Session wraps an Odometer with a start/pause/resume/stop lifecycle,
// duration accounting and periodic snapshots. All methods are safe for
// concurrent use; line processing must still come from one caller to keep
// command order.
type Session struct {
	opts  SessionOptions
	clock Clock

	// saveMu orders snapshot writes; always taken before mu.
	saveMu sync.Mutex
	mu     sync.Mutex

	store       *Store
	odo         *odometer.Odometer
	initialized bool
	state       State
	startedAt   time.Time
	total       time.Duration
	watch       Stopwatch
	cycle       cycleStart

	stopTimer chan struct{}
	timerDone chan struct{}
	closeOnce sync.Once
}

// NewSession creates an uninitialized session.
func NewSession(opts SessionOptions) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Odometer.MaxExtruders == 0 && opts.Odometer.Extruders == 0 {
		opts.Odometer = odometer.DefaultOptions()
	}
	return &Session{opts: opts, clock: opts.Clock}
}

// Initialize loads the snapshot from dir, seeds the odometer and starts the
// snapshot timer. A missing snapshot file is a first run; any other load
// error is returned and the session stays unusable.
func (s *Session) Initialize(dir string) error {
	if dir == "" {
		return ErrNoStorage
	}

	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	store := NewStore(dir)
	snap, _, err := store.Load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.store = store
	s.odo = odometer.New(s.opts.Odometer, snap.AxisTraveling, snap.ExtrusionTraveling)
	s.total = snap.TotalDuration
	s.startedAt = snap.TrackingStartedAt
	stamp := s.startedAt.IsZero()
	if stamp {
		s.startedAt = s.clock.Now().Round(0)
	}
	s.initialized = true
	s.stopTimer = make(chan struct{})
	s.timerDone = make(chan struct{})
	s.mu.Unlock()

	if stamp {
		if err := s.persist(); err != nil {
			s.mu.Lock()
			s.initialized = false
			s.mu.Unlock()
			return fmt.Errorf("initial snapshot: %w", err)
		}
	}

	s.startTimer()
	return nil
}

func (s *Session) startTimer() {
	go func() {
		defer close(s.timerDone)
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.persist(); err != nil {
					s.warnf("snapshot: %v", err)
				}
			case <-s.stopTimer:
				return
			}
		}
	}()
}

// Close stops the snapshot timer and writes a final snapshot.
func (s *Session) Close() error {
	if !s.Initialized() {
		return nil
	}
	var err error
	s.closeOnce.Do(func() {
		close(s.stopTimer)
		<-s.timerDone
		err = s.persist()
	})
	return err
}

// StartTracking begins a cycle. The session must be stopped.
func (s *Session) StartTracking() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.state != Stopped {
		return &StateError{Op: "start", State: s.state}
	}

	s.state = Tracking
	s.watch = Start(s.clock)
	s.cycle = cycleStart{
		id:        uuid.NewString(),
		startedAt: s.clock.Now().Round(0),
		axis:      s.odo.TotalAxisTraveling(),
		extrusion: sum(s.odo.TotalExtrusionTraveling()),
		total:     s.total,
	}
	return nil
}

// PauseTracking folds the running time into the total and persists.
func (s *Session) PauseTracking() error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	if s.state != Tracking {
		st := s.state
		s.mu.Unlock()
		return &StateError{Op: "pause", State: st}
	}
	s.state = Paused
	s.total += s.watch.Elapsed()
	s.mu.Unlock()

	s.persistOrWarn()
	return nil
}

// ResumeTracking continues a paused cycle. The paused interval is not counted.
func (s *Session) ResumeTracking() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.state != Paused {
		return &StateError{Op: "resume", State: s.state}
	}
	s.state = Tracking
	s.watch = Start(s.clock)
	return nil
}

// StopTracking ends the cycle with OutcomeStopped.
func (s *Session) StopTracking() error {
	return s.StopTrackingWithOutcome(OutcomeStopped)
}

// StopTrackingWithOutcome ends the cycle from any state. Running time is
// folded only when the session was tracking; a pause already folded it.
// Stopping an already stopped session only persists.
func (s *Session) StopTrackingWithOutcome(outcome Outcome) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}

	prev := s.state
	if prev == Tracking {
		s.total += s.watch.Elapsed()
	}
	s.state = Stopped
	s.watch = Stopwatch{}

	var finished *Cycle
	if prev != Stopped {
		c := Cycle{
			ID:                 s.cycle.id,
			StartedAt:          s.cycle.startedAt,
			EndedAt:            s.clock.Now().Round(0),
			Duration:           s.total - s.cycle.total,
			AxisTraveling:      s.odo.TotalAxisTraveling().Sub(s.cycle.axis),
			ExtrusionTraveling: sum(s.odo.TotalExtrusionTraveling()) - s.cycle.extrusion,
			Outcome:            outcome,
		}
		finished = &c
	}
	s.mu.Unlock()

	s.persistOrWarn()
	if finished != nil && s.opts.Recorder != nil {
		if err := s.opts.Recorder.RecordCycle(*finished); err != nil {
			s.warnf("record cycle: %v", err)
		}
	}
	return nil
}

// ProcessGCodeLine feeds one command to the odometer in any state.
func (s *Session) ProcessGCodeLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.odo.ProcessLine(line)
	return nil
}

// Initialized reports whether Initialize completed.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TrackingSince returns when tracking was first stamped.
func (s *Session) TrackingSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// TotalDuration returns the folded duration. While tracking it lags behind;
// use CurrentTotalDuration during a cycle.
func (s *Session) TotalDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// CurrentTotalDuration includes the running time of an active cycle.
func (s *Session) CurrentTotalDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTotalLocked()
}

// AxisTraveling returns the cumulative axis travel.
func (s *Session) AxisTraveling() odometer.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.odo == nil {
		return odometer.Vector3{}
	}
	return s.odo.TotalAxisTraveling()
}

// ExtrusionTraveling returns the cumulative extrusion travel per extruder.
func (s *Session) ExtrusionTraveling() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.odo == nil {
		return nil
	}
	return s.odo.TotalExtrusionTraveling()
}

// Snapshot returns the state that would be persisted right now.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return Snapshot{}, ErrNotInitialized
	}
	return s.snapshotLocked(), nil
}

func (s *Session) currentTotalLocked() time.Duration {
	if s.state == Tracking {
		return s.total + s.watch.Elapsed()
	}
	return s.total
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		TrackingStartedAt:  s.startedAt,
		TotalDuration:      s.currentTotalLocked(),
		AxisTraveling:      s.odo.TotalAxisTraveling(),
		ExtrusionTraveling: s.odo.TotalExtrusionTraveling(),
	}
}

func (s *Session) persist() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	return s.store.Save(snap)
}

func (s *Session) persistOrWarn() {
	if err := s.persist(); err != nil {
		s.warnf("snapshot: %v", err)
	}
}

func (s *Session) warnf(format string, args ...any) {
	if s.opts.Warnf != nil {
		s.opts.Warnf(format, args...)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
