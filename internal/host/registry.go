package host

import (
	"fmt"
	"sort"
)

// Registry holds loaded event maps indexed by name.
type Registry struct {
	byName map[string]*EventMap
}

// NewRegistry builds a registry from a list of event maps. Later entries
// with the same name are ignored.
func NewRegistry(maps []EventMap) *Registry {
	r := &Registry{byName: make(map[string]*EventMap, len(maps))}
	for i := range maps {
		if _, ok := r.byName[maps[i].Name]; !ok {
			r.byName[maps[i].Name] = &maps[i]
		}
	}
	return r
}

// Get returns the map with the given name.
func (r *Registry) Get(name string) (*EventMap, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown event map %q (available: %v)", name, r.Names())
	}
	return m, nil
}

// Names lists the registered map names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds the binding for event in m.
func (m *EventMap) Lookup(event string) (Binding, bool) {
	for _, b := range m.Events {
		if b.Event == event {
			return b, true
		}
	}
	return Binding{}, false
}
