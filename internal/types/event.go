package types

// EventType classifies progress messages emitted by the planner and executor
type EventType string

const (
	EventInfo    EventType = "info"
	EventSuccess EventType = "success"
	EventWarning EventType = "warning"
	EventError   EventType = "error"
)

// Event is a single progress message
type Event struct {
	Type    EventType
	Message string
}

// EventHandler receives events; a nil handler drops them
type EventHandler func(Event)

// Emit sends an event if h is non-nil
func (h EventHandler) Emit(t EventType, msg string) {
	if h != nil {
		h(Event{Type: t, Message: msg})
	}
}
