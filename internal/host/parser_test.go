package host

import (
	"strings"
	"testing"
)

func TestParseEventMap(t *testing.T) {
	data := `
name: "test"
description: "test host"
events:
  - event: "Begin"
    action: "start"
  - event: "End"
    action: "stop"
    outcome: "done"
`
	m, err := ParseEventMap([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "test" {
		t.Errorf("name = %q", m.Name)
	}
	if len(m.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(m.Events))
	}
	if m.Events[1].Action != ActionStop || m.Events[1].Outcome != "done" {
		t.Errorf("second binding = %+v", m.Events[1])
	}
}

func TestParseEventMapInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "bad yaml",
			data:    "name: [",
			wantErr: "parse event map",
		},
		{
			name:    "missing name",
			data:    "events:\n  - event: a\n    action: start\n",
			wantErr: "Name",
		},
		{
			name:    "no events",
			data:    "name: x\n",
			wantErr: "Events",
		},
		{
			name:    "unknown action",
			data:    "name: x\nevents:\n  - event: a\n    action: explode\n",
			wantErr: "Action",
		},
		{
			name:    "unknown outcome",
			data:    "name: x\nevents:\n  - event: a\n    action: stop\n    outcome: meh\n",
			wantErr: "Outcome",
		},
		{
			name:    "outcome on start",
			data:    "name: x\nevents:\n  - event: a\n    action: start\n    outcome: done\n",
			wantErr: "only applies to stop",
		},
		{
			name:    "duplicate event",
			data:    "name: x\nevents:\n  - event: a\n    action: start\n  - event: a\n    action: pause\n",
			wantErr: "duplicate event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEventMap([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
