package host

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseEventMap parses YAML bytes into an EventMap.
func ParseEventMap(data []byte) (*EventMap, error) {
	var m EventMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse event map: %w", err)
	}
	if err := ValidateEventMap(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ValidateEventMap checks required fields, allowed actions and duplicate events.
func ValidateEventMap(m *EventMap) error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("validate event map %q: %s failed %q", m.Name, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("validate event map %q: %w", m.Name, err)
	}

	seen := make(map[string]bool, len(m.Events))
	for i, b := range m.Events {
		if seen[b.Event] {
			return fmt.Errorf("validate event map %q: events[%d] duplicate event %q", m.Name, i, b.Event)
		}
		seen[b.Event] = true
		if b.Outcome != "" && b.Action != ActionStop {
			return fmt.Errorf("validate event map %q: events[%d] outcome only applies to stop", m.Name, i)
		}
	}
	return nil
}
