package vdom

// syncChildren reconciles the children of element n, dispatching on the
// old and new child shapes.
func (e *Engine) syncChildren(n any, a, b *VNode, ctx Context, flags SyncFlags) {
	if e.config.Debug && b.Shape == ShapeList {
		if err := checkList(b.List); err != nil {
			panic(err.WithPath(describe(b)))
		}
	}

	switch a.Shape {
	case ShapeNone:
		switch b.Shape {
		case ShapeNone:
		case ShapeBasic:
			if b.Text != "" {
				e.target.SetTextContent(n, b.Text)
			}
		case ShapeUnsafeHTML:
			if b.Text != "" {
				e.target.SetInnerHTML(n, b.Text)
			}
		case ShapeSingle:
			e.insert(n, b.Child, nil, ctx, flags)
		case ShapeList:
			e.insertAll(n, b.List, nil, ctx, flags)
		}

	case ShapeBasic, ShapeUnsafeHTML:
		switch b.Shape {
		case ShapeNone:
			e.target.SetTextContent(n, "")
		case ShapeBasic:
			if a.Shape != ShapeBasic || a.Text != b.Text {
				e.target.SetTextContent(n, b.Text)
			}
		case ShapeUnsafeHTML:
			if a.Shape != ShapeUnsafeHTML || a.Text != b.Text {
				e.target.SetInnerHTML(n, b.Text)
			}
		case ShapeSingle:
			e.target.SetTextContent(n, "")
			e.insert(n, b.Child, nil, ctx, flags)
		case ShapeList:
			e.target.SetTextContent(n, "")
			e.insertAll(n, b.List, nil, ctx, flags)
		}

	case ShapeSingle:
		switch b.Shape {
		case ShapeNone:
			e.remove(n, a.Child, flags)
		case ShapeBasic:
			e.detachIfAttached(a.Child, flags)
			e.target.SetTextContent(n, b.Text)
		case ShapeUnsafeHTML:
			e.detachIfAttached(a.Child, flags)
			e.target.SetInnerHTML(n, b.Text)
		case ShapeSingle:
			switch {
			case a.Child == b.Child:
				e.dirtyCheck(n, b.Child, ctx, flags)
			case KeysEqual(a.Child, b.Child):
				e.sync(n, a.Child, b.Child, ctx, flags)
			default:
				e.remove(n, a.Child, flags)
				e.insert(n, b.Child, nil, ctx, flags)
			}
		case ShapeList:
			e.syncSingleToList(n, a.Child, b.List, ctx, flags)
		}

	case ShapeList:
		switch b.Shape {
		case ShapeNone:
			if len(a.List) > 0 {
				e.clear(n, a.List, flags)
			}
		case ShapeBasic:
			e.detachAllIfAttached(a.List, flags)
			e.target.SetTextContent(n, b.Text)
		case ShapeUnsafeHTML:
			e.detachAllIfAttached(a.List, flags)
			e.target.SetInnerHTML(n, b.Text)
		case ShapeSingle:
			e.syncListToSingle(n, a.List, b.Child, ctx, flags)
		case ShapeList:
			switch {
			case sameList(a.List, b.List):
				for _, c := range b.List {
					e.dirtyCheck(n, c, ctx, flags)
				}
			case len(a.List) == 0:
				e.insertAll(n, b.List, nil, ctx, flags)
			case len(b.List) == 0:
				e.clear(n, a.List, flags)
			default:
				e.syncList(n, a.List, b.List, ctx, flags)
			}
		}
	}
}

// syncSingleToList treats the old child as a one element list and looks
// for its key among the new children.
func (e *Engine) syncSingleToList(n any, a *VNode, b []*VNode, ctx Context, flags SyncFlags) {
	for i, c := range b {
		if !KeysEqual(a, c) {
			continue
		}
		e.sync(n, a, c, ctx, flags)
		ref := c.TargetNode()
		for _, before := range b[:i] {
			e.insert(n, before, ref, ctx, flags)
		}
		e.insertAll(n, b[i+1:], nil, ctx, flags)
		return
	}
	e.remove(n, a, flags)
	e.insertAll(n, b, nil, ctx, flags)
}

// syncListToSingle looks for the new child's key among the old children.
func (e *Engine) syncListToSingle(n any, a []*VNode, b *VNode, ctx Context, flags SyncFlags) {
	for i, c := range a {
		if !KeysEqual(c, b) {
			continue
		}
		for j, other := range a {
			if j != i {
				e.remove(n, other, flags)
			}
		}
		e.sync(n, c, b, ctx, flags)
		return
	}
	e.clear(n, a, flags)
	e.insert(n, b, nil, ctx, flags)
}

func (e *Engine) insertAll(n any, list []*VNode, ref any, ctx Context, flags SyncFlags) {
	for _, c := range list {
		e.insert(n, c, ref, ctx, flags)
	}
}

func (e *Engine) detachIfAttached(v *VNode, flags SyncFlags) {
	if flags&SyncAttached != 0 {
		e.detach(v)
	}
}

func (e *Engine) detachAllIfAttached(list []*VNode, flags SyncFlags) {
	if flags&SyncAttached != 0 {
		for _, c := range list {
			e.detach(c)
		}
	}
}

func sameList(a, b []*VNode) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
