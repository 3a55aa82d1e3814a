package vdom

import (
	"maps"
	"reflect"
	"slices"

	"github.com/vango-dev/vtree/internal/errors"
)

// sync patches a into b. The two nodes occupy the same slot.
func (e *Engine) sync(parent any, a, b *VNode, ctx Context, flags SyncFlags) {
	if a == b {
		e.dirtyCheck(parent, b, ctx, flags)
		return
	}
	if b.instance != nil {
		panic(errors.New(errors.CodeNodeReused).WithPath(describe(b)))
	}
	if !CanSync(a, b) {
		e.replace(parent, a, b, ctx, flags)
		return
	}

	switch b.Kind {
	case KindText:
		b.instance = a.instance
		if a.Text != b.Text {
			e.target.SetNodeValue(b.instance, b.Text)
		}

	case KindElement:
		n := a.instance
		b.instance = n
		if a.ClassName != b.ClassName {
			e.target.SetClassName(n, b.ClassName)
		}
		e.syncAttrs(n, a.Attrs, b.Attrs)
		e.syncStyle(n, a.Style, b.Style)
		if flags&SyncAttached != 0 && !eventsEqual(a.Events, b.Events) {
			e.events.Rebind(n, a.Events, b.Events)
		}
		e.syncChildren(n, a, b, ctx, flags)

	case KindStateful:
		c := a.instance.(Component)
		b.instance = c
		base := c.base()

		changed := PropsChanged(c, a.Props, b.Props)
		if changed {
			if r, ok := c.(PropsReceiver); ok {
				r.NewPropsReceived(a.Props, b.Props)
			}
		}
		base.props = b.Props
		base.ctx = ctx

		if changed || base.dirty || flags&SyncForceUpdate != 0 {
			e.updateStateful(parent, b, c, ctx, flags)
		} else if e.dirtyCheck(parent, base.root, ctx, flags) {
			if u, ok := c.(Updater); ok {
				u.Updated()
			}
		}

	case KindStateless:
		st := a.instance.(*componentState)
		b.instance = st
		changed := FuncPropsChanged(b.Desc.(*Func), a.Props, b.Props)
		if changed || flags&SyncForceUpdate != 0 {
			prev := st.root
			st.root = e.renderStateless(b)
			e.sync(parent, prev, st.root, ctx, flags)
		} else {
			e.dirtyCheck(parent, st.root, ctx, flags)
		}

	case KindConnect:
		st := a.instance.(*componentState)
		b.instance = st
		e.syncConnect(parent, b, st, ctx, flags)

	case KindContext:
		if flags&SyncDirtyContext != 0 || !ShallowEqual(a.Context, b.Context) {
			b.instance = mergeContext(ctx, b.Context)
			flags |= SyncDirtyContext
		} else {
			b.instance = a.instance
		}
		e.sync(parent, a.Child, b.Child, b.instance.(Context), flags)
	}
}

// replace renders b and puts it where a was.
func (e *Engine) replace(parent any, a, b *VNode, ctx Context, flags SyncFlags) {
	n := e.create(b, ctx)
	old := a.TargetNode()
	if flags&SyncAttached != 0 {
		e.detach(a)
	}
	e.target.ReplaceChild(parent, n, old)
	e.stats.Replaces++
	if flags&SyncAttached != 0 {
		e.attach(b)
	}
}

// updateStateful re-renders c, which is owned by v, and syncs the result.
func (e *Engine) updateStateful(parent any, v *VNode, c Component, ctx Context, flags SyncFlags) {
	base := c.base()
	base.ctx = ctx
	prev := base.root
	base.root = e.renderStateful(v, c)
	e.sync(parent, prev, base.root, ctx, flags)
	if u, ok := c.(Updater); ok {
		u.Updated()
	}
}

// syncConnect runs the selector of v and re-renders when it selects new
// data. It reports whether anything below v changed.
func (e *Engine) syncConnect(parent any, v *VNode, st *componentState, ctx Context, flags SyncFlags) bool {
	data := v.Desc.(*Connector).Select(st.data, v.Props, ctx)
	if data == st.data && flags&SyncForceUpdate == 0 {
		return e.dirtyCheck(parent, st.root, ctx, flags)
	}
	st.data = data
	prev := st.root
	st.root = e.renderConnect(v, data)
	e.sync(parent, prev, st.root, ctx, flags)
	return true
}

func (e *Engine) syncAttrs(n any, a, b map[string]any) {
	if len(a) == 0 && len(b) == 0 {
		return
	}
	if len(a) > 0 && len(b) > 0 && reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer() {
		return
	}
	for _, k := range slices.Sorted(maps.Keys(a)) {
		if _, ok := b[k]; !ok {
			e.target.RemoveAttribute(n, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(b)) {
		nv := b[k]
		if ov, ok := a[k]; !ok || !valuesEqual(ov, nv) {
			e.target.SetAttribute(n, k, nv)
		}
	}
}

func (e *Engine) syncStyle(n any, a, b map[string]string) {
	if len(a) == 0 && len(b) == 0 {
		return
	}
	for _, k := range slices.Sorted(maps.Keys(a)) {
		if _, ok := b[k]; !ok {
			e.target.RemoveStyle(n, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(b)) {
		nv := b[k]
		if ov, ok := a[k]; !ok || ov != nv {
			e.target.SetStyle(n, k, nv)
		}
	}
}

// valuesEqual compares attribute values, using fast paths for common types.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

func eventsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, ah := range a {
		bh, ok := b[k]
		if !ok || !Identical(ah, bh) {
			return false
		}
	}
	return true
}
