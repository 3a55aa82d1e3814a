package vdom

import (
	"maps"
	"slices"

	"github.com/vango-dev/vtree/internal/errors"
)

// create builds the target nodes for v without inserting the top node.
func (e *Engine) create(v *VNode, ctx Context) any {
	if v.instance != nil {
		panic(errors.New(errors.CodeNodeReused).WithPath(describe(v)).
			WithSuggestion("clone the subtree with vdom.Clone before placing it in a second tree"))
	}

	switch v.Kind {
	case KindText:
		n := e.target.CreateText(v.Text)
		v.instance = n
		e.stats.Creates++
		return n

	case KindElement:
		n := e.target.CreateElement(v.Tag)
		v.instance = n
		e.stats.Creates++
		if v.ClassName != "" {
			e.target.SetClassName(n, v.ClassName)
		}
		for _, k := range slices.Sorted(maps.Keys(v.Attrs)) {
			e.target.SetAttribute(n, k, v.Attrs[k])
		}
		for _, k := range slices.Sorted(maps.Keys(v.Style)) {
			e.target.SetStyle(n, k, v.Style[k])
		}
		e.createChildren(n, v, ctx)
		return n

	case KindStateful:
		c := v.Desc.(*Stateful).New(v.Props)
		if c == nil {
			panic(errors.New(errors.CodeInvalidComponent).WithPath(describe(v)).
				WithDetail("Stateful.New returned nil"))
		}
		b := c.base()
		b.props = v.Props
		b.ctx = ctx
		v.instance = c
		b.root = e.renderStateful(v, c)
		return e.create(b.root, ctx)

	case KindStateless:
		st := &componentState{}
		v.instance = st
		st.root = e.renderStateless(v)
		return e.create(st.root, ctx)

	case KindConnect:
		conn := v.Desc.(*Connector)
		st := &componentState{data: conn.Select(nil, v.Props, ctx)}
		v.instance = st
		st.root = e.renderConnect(v, st.data)
		return e.create(st.root, ctx)

	case KindContext:
		merged := mergeContext(ctx, v.Context)
		v.instance = merged
		return e.create(v.Child, merged)
	}

	panic(errors.New(errors.CodeInvalidChild).WithPath(describe(v)).
		WithDetailf("unknown node kind %d", v.Kind))
}

func (e *Engine) createChildren(n any, v *VNode, ctx Context) {
	switch v.Shape {
	case ShapeBasic:
		if v.Text != "" {
			e.target.SetTextContent(n, v.Text)
		}
	case ShapeUnsafeHTML:
		if v.Text != "" {
			e.target.SetInnerHTML(n, v.Text)
		}
	case ShapeSingle:
		e.target.InsertBefore(n, e.create(v.Child, ctx), nil)
	case ShapeList:
		if e.config.Debug {
			if err := checkList(v.List); err != nil {
				panic(err.WithPath(describe(v)))
			}
		}
		for _, c := range v.List {
			e.target.InsertBefore(n, e.create(c, ctx), nil)
		}
	}
}

// insert creates v and inserts it under parent before ref.
func (e *Engine) insert(parent any, v *VNode, ref any, ctx Context, flags SyncFlags) {
	e.target.InsertBefore(parent, e.create(v, ctx), ref)
	e.stats.Inserts++
	if flags&SyncAttached != 0 {
		e.attach(v)
	}
}

// remove detaches v when the tree is live and removes it from parent.
func (e *Engine) remove(parent any, v *VNode, flags SyncFlags) {
	if flags&SyncAttached != 0 {
		e.detach(v)
	}
	e.target.RemoveChild(parent, v.TargetNode())
	e.stats.Removes++
}

// clear removes every child of parent with a single target call.
func (e *Engine) clear(parent any, list []*VNode, flags SyncFlags) {
	if flags&SyncAttached != 0 {
		for _, c := range list {
			e.detach(c)
		}
	}
	e.target.SetTextContent(parent, "")
	e.stats.Clears++
	e.logger.Debug("vdom: cleared children", "count", len(list))
}

func (e *Engine) renderStateful(v *VNode, c Component) *VNode {
	c.base().dirty = false
	e.stats.Renders++
	return checkRoot(v, c.Render())
}

func (e *Engine) renderStateless(v *VNode) *VNode {
	e.stats.Renders++
	return checkRoot(v, v.Desc.(*Func).Render(v.Props))
}

func (e *Engine) renderConnect(v *VNode, data *SelectorData) *VNode {
	var out any
	if data != nil {
		out = data.Out
	}
	e.stats.Renders++
	return checkRoot(v, v.Desc.(*Connector).Render(out))
}

func checkRoot(owner, root *VNode) *VNode {
	if root == nil {
		panic(errors.New(errors.CodeNilRender).WithPath(describe(owner)))
	}
	return root
}
