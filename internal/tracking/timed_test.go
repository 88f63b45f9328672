package tracking

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStopwatch(t *testing.T) {
	clock := newFakeClock()

	w := Start(clock)
	clock.Advance(3 * time.Second)
	if got := w.Elapsed(); got != 3*time.Second {
		t.Errorf("elapsed = %v, want 3s", got)
	}
}

func TestStopwatchZeroValue(t *testing.T) {
	var w Stopwatch
	if got := w.Elapsed(); got != 0 {
		t.Errorf("zero stopwatch elapsed = %v", got)
	}
}

func TestStopwatchSystemClock(t *testing.T) {
	w := Start(nil)
	if w.Elapsed() < 0 {
		t.Error("negative elapsed")
	}
}
