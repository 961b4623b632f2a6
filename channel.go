package gamepads

import "context"

// EventChannel represents an event channel that can be used to receive events from gamepads.
// Ch is never closed: receivers select on Ctx, which is done after CancelFunc
// or once the bus closes.
type EventChannel struct {
	Ctx        context.Context
	Ch         chan *Event
	CancelFunc context.CancelFunc
	filters    []FilterFunc
}

// FilterFunc is a function type used to filter events before they are sent to the event channel.
type FilterFunc func(e *Event) bool

func (c *EventChannel) accepts(e *Event) bool {
	for _, filter := range c.filters {
		if !filter(e) {
			return false
		}
	}
	return true
}

// ControlEventsOnly passes only control events.
func ControlEventsOnly(e *Event) bool {
	return e.Type == ControlEventType
}

// ForGamepad passes only events of the gamepad with the given ID.
func ForGamepad(id string) FilterFunc {
	return func(e *Event) bool {
		return e.ID == id
	}
}
