package vdom

import (
	"github.com/vango-dev/vtree/internal/errors"
)

// Expansion is one component or context level rendered without an engine.
type Expansion struct {
	Root      *VNode        // Node rendered in place of the expanded node
	Context   Context       // Context seen by Root
	Component Component     // Stateful nodes only
	Selector  *SelectorData // Connect nodes only
}

// Expand renders one level of a component or context node for string
// renderers. Nothing is recorded in v. Text and element nodes expand to
// themselves.
func Expand(v *VNode, ctx Context) (Expansion, error) {
	x := Expansion{Root: v, Context: ctx}
	switch v.Kind {
	case KindStateful:
		c := v.Desc.(*Stateful).New(v.Props)
		if c == nil {
			return x, errors.New(errors.CodeInvalidComponent).WithPath(describe(v)).
				WithDetail("Stateful.New returned nil")
		}
		c.base().props = v.Props
		c.base().ctx = ctx
		x.Component = c
		x.Root = c.Render()
	case KindStateless:
		x.Root = v.Desc.(*Func).Render(v.Props)
	case KindConnect:
		conn := v.Desc.(*Connector)
		x.Selector = conn.Select(nil, v.Props, ctx)
		var out any
		if x.Selector != nil {
			out = x.Selector.Out
		}
		x.Root = conn.Render(out)
	case KindContext:
		x.Context = mergeContext(ctx, v.Context)
		x.Root = v.Child
	default:
		return x, nil
	}
	if x.Root == nil {
		return x, errors.New(errors.CodeNilRender).WithPath(describe(v))
	}
	return x, nil
}

// PropsChanged reports whether a stateful component would consider its
// props changed between two nodes, using its PropsComparer when c
// implements one and ShallowEqual otherwise.
func PropsChanged(c Component, oldProps, newProps any) bool {
	if pc, ok := c.(PropsComparer); ok {
		return pc.IsPropsChanged(oldProps, newProps)
	}
	return !ShallowEqual(oldProps, newProps)
}

// FuncPropsChanged is PropsChanged for stateless components.
func FuncPropsChanged(f *Func, oldProps, newProps any) bool {
	if f.IsPropsChanged != nil {
		return f.IsPropsChanged(oldProps, newProps)
	}
	return !Identical(oldProps, newProps)
}

// MergeContext returns a new context with child's entries over parent's.
func MergeContext(parent, child Context) Context {
	return mergeContext(parent, child)
}
