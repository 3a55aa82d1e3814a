package vdom

import (
	"maps"
	"reflect"

	"github.com/vango-dev/vtree/internal/errors"
)

// Component is the live instance behind a stateful node. Implementations
// embed Base and provide Render.
//
//	type Counter struct {
//	    vdom.Base
//	    n int
//	}
//
//	func (c *Counter) Render() *vdom.VNode {
//	    return vdom.Span(vdom.Textf("%d", c.n))
//	}
type Component interface {
	Render() *VNode
	base() *Base
}

// Base holds the engine-managed state of a stateful component.
type Base struct {
	props    any
	ctx      Context
	dirty    bool
	attached bool
	root     *VNode
}

func (b *Base) base() *Base { return b }

// Props returns the props the component was last rendered with.
func (b *Base) Props() any { return b.props }

// Context returns the context the component was last rendered with.
func (b *Base) Context() Context { return b.ctx }

// Invalidate marks the component dirty. The next Sync or DirtyCheck that
// reaches it re-renders it even if its props are unchanged.
func (b *Base) Invalidate() { b.dirty = true }

// IsDirty reports whether Invalidate was called since the last render.
func (b *Base) IsDirty() bool { return b.dirty }

// IsAttached reports whether the component is part of a live tree.
func (b *Base) IsAttached() bool { return b.attached }

// PropsComparer overrides the default shallow props comparison.
type PropsComparer interface {
	IsPropsChanged(oldProps, newProps any) bool
}

// PropsReceiver is notified before a component re-renders with new props.
type PropsReceiver interface {
	NewPropsReceived(oldProps, newProps any)
}

// Attacher is notified after the component joins a live tree.
type Attacher interface {
	Attached()
}

// Detacher is notified when the component leaves a live tree, after all
// of its descendants were detached.
type Detacher interface {
	Detached()
}

// Updater is notified after a re-render was synced into the tree.
type Updater interface {
	Updated()
}

// Stateful describes a stateful component.
type Stateful struct {
	Name string
	New  func(props any) Component
}

// Node creates a stateful node for the component. Attrs other than Key are
// ignored.
func (c *Stateful) Node(props any, opts ...Attr) *VNode {
	if c == nil || c.New == nil {
		panic(errors.New(errors.CodeInvalidComponent).WithPath("Stateful.Node"))
	}
	return componentNode(KindStateful, c, props, opts)
}

// Func describes a stateless component. When IsPropsChanged is nil the
// component re-renders whenever the props value is not identical.
type Func struct {
	Name           string
	Render         func(props any) *VNode
	IsPropsChanged func(oldProps, newProps any) bool
}

// Node creates a stateless node for the function.
func (f *Func) Node(props any, opts ...Attr) *VNode {
	if f == nil || f.Render == nil {
		panic(errors.New(errors.CodeInvalidComponent).WithPath("Func.Node"))
	}
	return componentNode(KindStateless, f, props, opts)
}

// SelectorData is the result of a connector's Select. In is what the
// selection was computed from and Out is what gets rendered.
type SelectorData struct {
	In  any
	Out any
}

// Connector describes a node whose output is derived from props and
// context by a selector. The node re-renders only when Select returns a
// different *SelectorData than it returned last time.
type Connector struct {
	Name   string
	Select func(prev *SelectorData, props any, ctx Context) *SelectorData
	Render func(out any) *VNode
}

// Node creates a connect node.
func (c *Connector) Node(props any, opts ...Attr) *VNode {
	if c == nil || c.Select == nil || c.Render == nil {
		panic(errors.New(errors.CodeInvalidComponent).WithPath("Connector.Node"))
	}
	return componentNode(KindConnect, c, props, opts)
}

// Context is the value passed down the tree to connectors and components.
type Context map[string]any

// WithContext creates a context node. Its child sees ctx merged over the
// ambient context.
func WithContext(ctx Context, child *VNode, opts ...Attr) *VNode {
	if child == nil {
		panic(errors.New(errors.CodeInvalidChild).WithDetail("context node requires a child"))
	}
	n := &VNode{Kind: KindContext, Context: ctx, Child: child}
	applyKeyOpts(n, opts)
	return n
}

func componentNode(kind Kind, desc any, props any, opts []Attr) *VNode {
	n := &VNode{Kind: kind, Desc: desc, Props: props}
	applyKeyOpts(n, opts)
	return n
}

func applyKeyOpts(n *VNode, opts []Attr) {
	for _, o := range opts {
		if o.Key == "key" {
			n.Key = keyString(o.Value)
			n.ExplicitKey = true
		}
	}
}

func mergeContext(parent, child Context) Context {
	out := make(Context, len(parent)+len(child))
	maps.Copy(out, parent)
	maps.Copy(out, child)
	return out
}

func (c *Stateful) displayName() string {
	if c.Name != "" {
		return c.Name
	}
	return "Stateful"
}

func (f *Func) displayName() string {
	if f.Name != "" {
		return f.Name
	}
	return "Func"
}

func (c *Connector) displayName() string {
	if c.Name != "" {
		return c.Name
	}
	return "Connector"
}

// ShallowEqual compares two props values one level deep. Structs are
// compared field by field, maps entry by entry and pointers by identity.
// Values that are not comparable at the first level fall back to
// identity of their underlying data.
func ShallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Struct:
		for i := 0; i < va.NumField(); i++ {
			if !identical(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if va.Len() != vb.Len() {
			return false
		}
		if va.UnsafePointer() == vb.UnsafePointer() {
			return true
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !identical(iter.Value(), other) {
				return false
			}
		}
		return true
	default:
		return identical(va, vb)
	}
}

// Identical reports whether a and b are the same value: equal for
// comparable types, the same underlying data for slices, maps and funcs.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	return identical(va, vb)
}

func identical(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Slice:
		return a.Len() == b.Len() && a.UnsafePointer() == b.UnsafePointer()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return a.UnsafePointer() == b.UnsafePointer()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		ea, eb := a.Elem(), b.Elem()
		if ea.Type() != eb.Type() {
			return false
		}
		return identical(ea, eb)
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !identical(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !identical(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}
