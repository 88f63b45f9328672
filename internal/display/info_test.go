package display

import (
	"testing"
	"time"

	"github.com/edouard-claude/printmeter/internal/odometer"
	"github.com/edouard-claude/printmeter/internal/tracking"
)

type stubSource struct {
	SnapshotSource
	ready bool
}

func (s stubSource) Initialized() bool { return s.ready }

func sampleSnapshot() tracking.Snapshot {
	return tracking.Snapshot{
		TrackingStartedAt:  time.Date(2020, 11, 15, 20, 21, 5, 0, time.Local),
		TotalDuration:      (10*24*3600 + 12*3600 + 23*60 + 2) * time.Second,
		AxisTraveling:      odometer.Vector3{X: 1111111.2, Y: 5001, Z: 32},
		ExtrusionTraveling: []float64{7.9, 120},
	}
}

func TestBuildInformation(t *testing.T) {
	info := BuildInformation(SnapshotSource{Snap: sampleSnapshot()})
	if info == nil {
		t.Fatal("expected information")
	}

	want := TrackingInformation{
		TrackingSince:  "15.11.2020 20:21",
		TotalPrintTime: "10d12h23m2s",
		XMovement:      "1km 111m 11cm 1mm",
		YMovement:      "5m 0cm 1mm",
		ZMovement:      "3cm 2mm",
		EMovement:      "7mm",
	}
	if *info != want {
		t.Errorf("got %+v\nwant %+v", *info, want)
	}
}

func TestBuildInformationUnavailable(t *testing.T) {
	if BuildInformation(nil) != nil {
		t.Error("expected nil for nil source")
	}
	if BuildInformation(stubSource{SnapshotSource: SnapshotSource{Snap: sampleSnapshot()}}) != nil {
		t.Error("expected nil for uninitialized source")
	}
}

func TestBuildInformationNoExtruders(t *testing.T) {
	info := BuildInformation(SnapshotSource{})
	if info == nil {
		t.Fatal("expected information")
	}
	if info.EMovement != "0mm" || info.TotalPrintTime != "0s" || info.TrackingSince != "" {
		t.Errorf("got %+v", *info)
	}
}

func TestBuildInformationFromSession(t *testing.T) {
	s := tracking.NewSession(tracking.SessionOptions{Interval: time.Hour})
	if BuildInformation(s) != nil {
		t.Error("expected nil before initialize")
	}

	if err := s.Initialize(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	_ = s.ProcessGCodeLine("G1 X12")

	info := BuildInformation(s)
	if info == nil {
		t.Fatal("expected information after initialize")
	}
	if info.XMovement != "1cm 2mm" {
		t.Errorf("x = %q", info.XMovement)
	}
}
