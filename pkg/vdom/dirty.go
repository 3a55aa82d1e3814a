package vdom

// dirtyCheck walks a tree that was passed through unchanged and
// re-renders components that invalidated themselves or whose connectors
// select new data. It reports whether anything below v changed.
func (e *Engine) dirtyCheck(parent any, v *VNode, ctx Context, flags SyncFlags) bool {
	switch v.Kind {
	case KindElement:
		n := v.instance
		switch v.Shape {
		case ShapeSingle:
			return e.dirtyCheck(n, v.Child, ctx, flags)
		case ShapeList:
			changed := false
			for _, c := range v.List {
				if e.dirtyCheck(n, c, ctx, flags) {
					changed = true
				}
			}
			return changed
		}
		return false

	case KindStateful:
		c := v.instance.(Component)
		base := c.base()
		if base.dirty || flags&SyncForceUpdate != 0 {
			e.updateStateful(parent, v, c, ctx, flags)
			return true
		}
		base.ctx = ctx
		if e.dirtyCheck(parent, base.root, ctx, flags) {
			if u, ok := c.(Updater); ok {
				u.Updated()
			}
			return true
		}
		return false

	case KindStateless:
		st := v.instance.(*componentState)
		if flags&SyncForceUpdate != 0 {
			prev := st.root
			st.root = e.renderStateless(v)
			e.sync(parent, prev, st.root, ctx, flags)
			return true
		}
		return e.dirtyCheck(parent, st.root, ctx, flags)

	case KindConnect:
		return e.syncConnect(parent, v, v.instance.(*componentState), ctx, flags)

	case KindContext:
		if flags&SyncDirtyContext != 0 {
			v.instance = mergeContext(ctx, v.Context)
		}
		return e.dirtyCheck(parent, v.Child, v.instance.(Context), flags)
	}
	return false
}
