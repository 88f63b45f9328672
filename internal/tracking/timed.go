package tracking

import "time"

// Clock supplies wall and monotonic time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stopwatch measures elapsed time from a monotonic start reading.
type Stopwatch struct {
	clock     Clock
	startTime time.Time
}

// Start creates a running Stopwatch. A nil clock uses the system clock.
func Start(clock Clock) Stopwatch {
	if clock == nil {
		clock = systemClock{}
	}
	return Stopwatch{clock: clock, startTime: clock.Now()}
}

// Elapsed returns the time since Start. A zero Stopwatch reports 0.
func (w Stopwatch) Elapsed() time.Duration {
	if w.clock == nil {
		return 0
	}
	d := w.clock.Now().Sub(w.startTime)
	if d < 0 {
		return 0
	}
	return d
}
