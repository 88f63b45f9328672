package display

import (
	"time"

	"github.com/edouard-claude/printmeter/internal/odometer"
	"github.com/edouard-claude/printmeter/internal/tracking"
	"github.com/edouard-claude/printmeter/internal/utils"
)

// InfoSource is anything that can report cumulative tracking values.
// *tracking.Session satisfies it.
type InfoSource interface {
	Initialized() bool
	TrackingSince() time.Time
	CurrentTotalDuration() time.Duration
	AxisTraveling() odometer.Vector3
	ExtrusionTraveling() []float64
}

// TrackingInformation is the human-readable view of the tracked totals.
type TrackingInformation struct {
	TrackingSince  string `json:"trackingSince"`
	TotalPrintTime string `json:"totalPrintTime"`
	XMovement      string `json:"xMovement"`
	YMovement      string `json:"yMovement"`
	ZMovement      string `json:"zMovement"`
	EMovement      string `json:"eMovement"`
}

// BuildInformation formats the current totals of src. It returns nil when
// there is nothing to report yet.
func BuildInformation(src InfoSource) *TrackingInformation {
	if src == nil || !src.Initialized() {
		return nil
	}

	axis := src.AxisTraveling()
	var e float64
	if ext := src.ExtrusionTraveling(); len(ext) > 0 {
		e = ext[0]
	}

	return &TrackingInformation{
		TrackingSince:  utils.FormatDateTime(src.TrackingSince()),
		TotalPrintTime: utils.FormatDuration(src.CurrentTotalDuration()),
		XMovement:      utils.FormatDistance(axis.X),
		YMovement:      utils.FormatDistance(axis.Y),
		ZMovement:      utils.FormatDistance(axis.Z),
		EMovement:      utils.FormatDistance(e),
	}
}

// SnapshotSource serves a persisted snapshot as an InfoSource, for reading
// totals while no session is running.
type SnapshotSource struct {
	Snap tracking.Snapshot
}

func (s SnapshotSource) Initialized() bool                   { return true }
func (s SnapshotSource) TrackingSince() time.Time            { return s.Snap.TrackingStartedAt }
func (s SnapshotSource) CurrentTotalDuration() time.Duration { return s.Snap.TotalDuration }
func (s SnapshotSource) AxisTraveling() odometer.Vector3     { return s.Snap.AxisTraveling }
func (s SnapshotSource) ExtrusionTraveling() []float64       { return s.Snap.ExtrusionTraveling }
