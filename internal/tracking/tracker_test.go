//go:build !lite

package tracking

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/edouard-claude/printmeter/internal/odometer"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	tracker, err := NewTracker(dbPath)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	t.Cleanup(func() { tracker.Close() })
	return tracker
}

func testCycle(id string, outcome Outcome, ended time.Time) Cycle {
	return Cycle{
		ID:                 id,
		StartedAt:          ended.Add(-90 * time.Second),
		EndedAt:            ended,
		Duration:           90 * time.Second,
		AxisTraveling:      odometer.Vector3{X: 100, Y: 50, Z: 2},
		ExtrusionTraveling: 12.5,
		Outcome:            outcome,
	}
}

func TestNewTracker(t *testing.T) {
	tracker := newTestTracker(t)
	if tracker == nil {
		t.Fatal("tracker is nil")
	}
}

func TestRecordCycle(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Now()

	if err := tracker.RecordCycle(testCycle("a", OutcomeDone, now)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := tracker.RecordCycle(testCycle("b", OutcomeFailed, now)); err != nil {
		t.Fatalf("record: %v", err)
	}

	summary, err := tracker.GetSummary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCycles != 2 {
		t.Errorf("total cycles = %d", summary.TotalCycles)
	}
	if summary.Completed != 1 {
		t.Errorf("completed = %d", summary.Completed)
	}
	if summary.TotalDuration != 180 {
		t.Errorf("total duration = %d", summary.TotalDuration)
	}
	if summary.AxisX != 200 || summary.Extrusion != 25 {
		t.Errorf("axis x = %v, extrusion = %v", summary.AxisX, summary.Extrusion)
	}
}

func TestRecordCycleDuplicateID(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Now()

	_ = tracker.RecordCycle(testCycle("same", OutcomeDone, now))
	if err := tracker.RecordCycle(testCycle("same", OutcomeDone, now)); err == nil {
		t.Error("expected error for duplicate cycle id")
	}
}

func TestGetRecent(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Now()

	_ = tracker.RecordCycle(testCycle("c1", OutcomeDone, now.Add(-2*time.Hour)))
	_ = tracker.RecordCycle(testCycle("c2", OutcomeCancelled, now.Add(-time.Hour)))
	_ = tracker.RecordCycle(testCycle("c3", OutcomeDone, now))

	recent, err := tracker.GetRecent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	// Most recent first
	if recent[0].ID != "c3" {
		t.Errorf("first = %q", recent[0].ID)
	}
	if recent[1].Outcome != "cancelled" {
		t.Errorf("second outcome = %q", recent[1].Outcome)
	}
}

func TestGetDaily(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Now()

	_ = tracker.RecordCycle(testCycle("d1", OutcomeDone, now))
	_ = tracker.RecordCycle(testCycle("d2", OutcomeDone, now))

	daily, err := tracker.GetDaily(7)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(daily) != 1 {
		t.Fatalf("got %d days, want 1", len(daily))
	}
	if daily[0].Cycles != 2 {
		t.Errorf("cycles = %d", daily[0].Cycles)
	}
}

func TestGetByOutcome(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Now()

	_ = tracker.RecordCycle(testCycle("o1", OutcomeDone, now))
	_ = tracker.RecordCycle(testCycle("o2", OutcomeDone, now))
	_ = tracker.RecordCycle(testCycle("o3", OutcomeFailed, now))

	stats, err := tracker.GetByOutcome()
	if err != nil {
		t.Fatalf("by outcome: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(stats))
	}
	if stats[0].Outcome != "done" || stats[0].Count != 2 {
		t.Errorf("first = %+v", stats[0])
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv("PRINTMETER_DB_PATH", "/custom/path.db")
	if got := DBPath(""); got != "/custom/path.db" {
		t.Errorf("got %q", got)
	}

	t.Setenv("PRINTMETER_DB_PATH", "")
	if got := DBPath("/config/path.db"); got != "/config/path.db" {
		t.Errorf("got %q", got)
	}
}
