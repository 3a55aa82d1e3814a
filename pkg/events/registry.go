package events

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrNoHandler is returned by Dispatch when the target has no handler for
// the event.
var ErrNoHandler = errors.New("events: no handler")

// HandlerError wraps a panic that occurred in an event handler.
type HandlerError struct {
	Target    uint32
	EventType string
	Panic     any
	Stack     []byte
}

// Error returns the error message.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("events: handler panic on #%d %s: %v", e.Target, e.EventType, e.Panic)
}

// Node is implemented by target node handles the registry can key.
type Node interface {
	NodeID() uint32
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for binding problems and handler panics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry maps node IDs to their bound handlers. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[uint32]map[string]Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[uint32]map[string]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind registers the handlers of node. It implements vdom.EventBinder.
func (r *Registry) Bind(node any, handlers map[string]any) {
	id, ok := r.nodeID(node)
	if !ok {
		return
	}
	bound := r.wrapAll(id, handlers)
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(bound) == 0 {
		delete(r.handlers, id)
		return
	}
	r.handlers[id] = bound
}

// Rebind replaces the handlers of node.
func (r *Registry) Rebind(node any, _, handlers map[string]any) {
	r.Bind(node, handlers)
}

// Unbind drops every handler of node.
func (r *Registry) Unbind(node any, _ map[string]any) {
	id, ok := r.nodeID(node)
	if !ok {
		return
	}
	r.mu.Lock()
	delete(r.handlers, id)
	r.mu.Unlock()
}

// Has reports whether node id has a handler for typ.
func (r *Registry) Has(id uint32, typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id][typ]
	return ok
}

// Len returns the number of nodes with handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Dispatch runs the handler bound for e. A panicking handler is reported
// as a *HandlerError.
func (r *Registry) Dispatch(e *Event) (err error) {
	r.mu.RLock()
	h, ok := r.handlers[e.Target][e.Type]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w for %s on #%d", ErrNoHandler, e.Type, e.Target)
	}

	defer func() {
		if p := recover(); p != nil {
			herr := &HandlerError{Target: e.Target, EventType: e.Type, Panic: p, Stack: debug.Stack()}
			r.logger.Error("events: handler panic", "target", e.Target, "event", e.Type, "panic", p)
			err = herr
		}
	}()
	h(e)
	return nil
}

func (r *Registry) nodeID(node any) (uint32, bool) {
	n, ok := node.(Node)
	if !ok {
		r.logger.Warn("events: node handle has no ID", "type", fmt.Sprintf("%T", node))
		return 0, false
	}
	return n.NodeID(), true
}

func (r *Registry) wrapAll(id uint32, handlers map[string]any) map[string]Handler {
	out := make(map[string]Handler, len(handlers))
	for typ, v := range handlers {
		h, err := wrapHandler(v)
		if err != nil {
			r.logger.Warn("events: handler skipped", "target", id, "event", typ, "error", err)
			continue
		}
		out[typ] = h
	}
	return out
}
