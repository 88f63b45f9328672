package host

import (
	"reflect"
	"testing"
)

func makeMap(name string, bindings ...Binding) EventMap {
	return EventMap{Name: name, Events: bindings}
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry([]EventMap{
		makeMap("octoprint", Binding{Event: "PrintStarted", Action: ActionStart}),
		makeMap("klipper", Binding{Event: "printing", Action: ActionStart}),
		makeMap("octoprint", Binding{Event: "Other", Action: ActionStart}),
	})

	m, err := reg.Get("octoprint")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.Lookup("PrintStarted"); !ok {
		t.Error("expected the first map with a name to win")
	}

	if _, err := reg.Get("marlin"); err == nil {
		t.Error("expected error for unknown map")
	}

	if got := reg.Names(); !reflect.DeepEqual(got, []string{"klipper", "octoprint"}) {
		t.Errorf("names = %v", got)
	}
}

func TestEventMapLookup(t *testing.T) {
	m := makeMap("x",
		Binding{Event: "Begin", Action: ActionStart},
		Binding{Event: "End", Action: ActionStop, Outcome: "done"},
	)

	tests := []struct {
		event  string
		want   Action
		wantOK bool
	}{
		{"Begin", ActionStart, true},
		{"End", ActionStop, true},
		{"begin", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			b, ok := m.Lookup(tt.event)
			if ok != tt.wantOK || b.Action != tt.want {
				t.Errorf("Lookup(%q) = %+v, %v", tt.event, b, ok)
			}
		})
	}
}
