package vdom

import (
	"strconv"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText      Kind = iota // Plain text node
	KindElement               // <div>, <button>, etc.
	KindStateful              // Component created from a *Stateful
	KindStateless             // Component created from a *Func
	KindConnect               // Selector-driven component from a *Connector
	KindContext               // Extends the context seen by its child
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindStateful:
		return "Stateful"
	case KindStateless:
		return "Stateless"
	case KindConnect:
		return "Connect"
	case KindContext:
		return "Context"
	default:
		return "Unknown"
	}
}

// Shape describes how an element holds its children.
type Shape uint8

const (
	ShapeNone       Shape = iota // No children
	ShapeBasic                   // Text content in VNode.Text
	ShapeSingle                  // One child in VNode.Child
	ShapeList                    // Ordered children in VNode.List
	ShapeUnsafeHTML              // Raw markup in VNode.Text
)

// String returns the string representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "None"
	case ShapeBasic:
		return "Basic"
	case ShapeSingle:
		return "Single"
	case ShapeList:
		return "List"
	case ShapeUnsafeHTML:
		return "UnsafeHTML"
	default:
		return "Unknown"
	}
}

// VNode is one position in a virtual tree.
//
// Nodes are built once by the factories in this package and treated as
// immutable afterwards. The engine records the target node or component
// instance it created for a VNode inside it, so a rendered node must not
// be placed in a second tree. Use Clone to reuse a subtree.
type VNode struct {
	Kind Kind
	Tag  string // Element tag name (e.g., "div")
	Desc any    // *Stateful, *Func or *Connector for component kinds

	Key         string // Explicit key, valid when ExplicitKey is set
	ExplicitKey bool
	Index       int // Implicit key: argument slot in the parent builder

	Attrs     map[string]any    // Element attributes
	ClassName string            // Element class attribute
	Style     map[string]string // Element inline style properties
	Events    map[string]any    // Element event handlers, keyed by event name

	Props   any     // Component props
	Context Context // Payload of a context node

	Shape Shape
	Text  string   // Text node content, basic text or unsafe HTML
	Child *VNode   // ShapeSingle child, or the child of a context node
	List  []*VNode // ShapeList children

	instance any
}

// Instance returns what the engine created for this node: the target node
// for text and element nodes, the Component for stateful nodes, and engine
// state for other component kinds. It is nil until the node is rendered.
func (v *VNode) Instance() any {
	return v.instance
}

// Rendered reports whether the node has been rendered by an engine.
func (v *VNode) Rendered() bool {
	return v.instance != nil
}

// KeyString formats the node's key for diagnostics. Implicit keys print
// as "#<index>".
func (v *VNode) KeyString() string {
	if v.ExplicitKey {
		return v.Key
	}
	return "#" + strconv.Itoa(v.Index)
}

// Children returns the element's child nodes as a slice regardless of
// shape. Basic and unsafe HTML content yields nil.
func (v *VNode) Children() []*VNode {
	switch v.Shape {
	case ShapeSingle:
		return []*VNode{v.Child}
	case ShapeList:
		return v.List
	default:
		return nil
	}
}

// Root returns the node a component or context node currently renders,
// or nil for elements, text and unrendered components.
func (v *VNode) Root() *VNode {
	switch v.Kind {
	case KindStateful:
		if c, ok := v.instance.(Component); ok {
			return c.base().root
		}
	case KindStateless, KindConnect:
		if s, ok := v.instance.(*componentState); ok {
			return s.root
		}
	case KindContext:
		return v.Child
	}
	return nil
}

// TargetNode returns the target node that represents v, descending
// through components and context nodes.
func (v *VNode) TargetNode() any {
	for v != nil {
		switch v.Kind {
		case KindText, KindElement:
			return v.instance
		default:
			v = v.Root()
		}
	}
	return nil
}

// componentState is the instance of stateless and connect nodes.
type componentState struct {
	root *VNode
	data *SelectorData // connect only
}
