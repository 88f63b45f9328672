package host

// Action is what a host event does to the tracking session.
type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionStop   Action = "stop"
)

// EventMap binds the lifecycle events of one host to session actions.
type EventMap struct {
	Name        string    `yaml:"name" validate:"required"`
	Description string    `yaml:"description"`
	Events      []Binding `yaml:"events" validate:"required,min=1,dive"`
}

// Binding maps a single host event name to an action. Outcome only applies
// to stop and defaults to "stopped".
type Binding struct {
	Event   string `yaml:"event" validate:"required"`
	Action  Action `yaml:"action" validate:"required,oneof=start pause resume stop"`
	Outcome string `yaml:"outcome,omitempty" validate:"omitempty,oneof=done failed cancelled stopped"`
}
