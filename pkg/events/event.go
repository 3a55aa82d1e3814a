package events

import (
	"fmt"
	"time"
)

// Event is a client event aimed at one node.
type Event struct {
	// Type is the event name without the "on" prefix (click, input, ...).
	Type string

	// Target is the ID of the node the event fired on.
	Target uint32

	// Value is the current value of an input for input and change events.
	Value string

	// Key is the key name of keyboard events.
	Key string

	// Fields holds the form fields of submit events.
	Fields map[string]string

	// Time is when the event was received.
	Time time.Time
}

// FormData is the field set of a submitted form.
type FormData struct {
	values map[string]string
}

// Get returns the value for a form field.
func (f FormData) Get(key string) string {
	return f.values[key]
}

// Has returns whether a form field exists.
func (f FormData) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Handler is the internal handler type every supported signature is
// wrapped into.
type Handler func(*Event)

// wrapHandler converts a user-provided handler to a Handler.
func wrapHandler(value any) (Handler, error) {
	switch h := value.(type) {
	case Handler:
		return h, nil
	case func(*Event):
		return h, nil
	case func():
		return func(*Event) { h() }, nil
	case func(string):
		return func(e *Event) { h(e.Value) }, nil
	case func(FormData):
		return func(e *Event) { h(FormData{values: e.Fields}) }, nil
	default:
		return nil, fmt.Errorf("events: unsupported handler type %T", value)
	}
}
