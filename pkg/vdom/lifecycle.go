package vdom

// attach notifies a subtree that joined a live tree. Element handlers are
// bound after the element's children are attached. Stateful components
// are notified before their rendered root.
func (e *Engine) attach(v *VNode) {
	switch v.Kind {
	case KindElement:
		switch v.Shape {
		case ShapeSingle:
			e.attach(v.Child)
		case ShapeList:
			for _, c := range v.List {
				e.attach(c)
			}
		}
		if len(v.Events) > 0 {
			e.events.Bind(v.instance, v.Events)
		}
	case KindStateful:
		c := v.instance.(Component)
		c.base().attached = true
		if h, ok := c.(Attacher); ok {
			h.Attached()
		}
		e.attach(c.base().root)
	case KindStateless, KindConnect, KindContext:
		e.attach(v.Root())
	}
}

// detach notifies a subtree that is about to leave a live tree. Children
// are always detached before their parent.
func (e *Engine) detach(v *VNode) {
	switch v.Kind {
	case KindElement:
		switch v.Shape {
		case ShapeSingle:
			e.detach(v.Child)
		case ShapeList:
			for _, c := range v.List {
				e.detach(c)
			}
		}
		if len(v.Events) > 0 {
			e.events.Unbind(v.instance, v.Events)
		}
	case KindStateful:
		c := v.instance.(Component)
		e.detach(c.base().root)
		c.base().attached = false
		if h, ok := c.(Detacher); ok {
			h.Detached()
		}
	case KindStateless, KindConnect, KindContext:
		e.detach(v.Root())
	}
}
