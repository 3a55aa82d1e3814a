package vdom

// Target is the persistent tree the engine mutates. Node handles are
// opaque to the engine; a target returns them from CreateElement and
// CreateText and receives them back in every other call.
type Target interface {
	CreateElement(tag string) any
	CreateText(text string) any

	// InsertBefore inserts child under parent before ref, or at the end
	// when ref is nil.
	InsertBefore(parent, child, ref any)
	// MoveBefore moves child, already under parent, to just before ref,
	// or to the end when ref is nil.
	MoveBefore(parent, child, ref any)
	RemoveChild(parent, child any)
	ReplaceChild(parent, newChild, oldChild any)

	SetAttribute(node any, name string, value any)
	RemoveAttribute(node any, name string)
	SetStyle(node any, name, value string)
	RemoveStyle(node any, name string)
	SetClassName(node any, className string)

	// SetNodeValue replaces the content of a text node.
	SetNodeValue(node any, text string)
	// SetTextContent replaces all children of an element with a single
	// text run. An empty string removes every child.
	SetTextContent(node any, text string)
	SetInnerHTML(node any, html string)
}

// EventBinder attaches element event handlers. Bind is called when an
// element joins a live tree, Rebind when a live element's handlers
// change, and Unbind when it leaves.
type EventBinder interface {
	Bind(node any, handlers map[string]any)
	Rebind(node any, oldHandlers, newHandlers map[string]any)
	Unbind(node any, handlers map[string]any)
}

type nopEvents struct{}

func (nopEvents) Bind(any, map[string]any)                   {}
func (nopEvents) Rebind(any, map[string]any, map[string]any) {}
func (nopEvents) Unbind(any, map[string]any)                 {}
