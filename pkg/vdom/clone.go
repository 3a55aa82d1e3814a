package vdom

// Clone returns a deep copy of v without any engine state, so the copy
// can be rendered into another tree. Attribute, style, event and props
// values are shared with the original.
func Clone(v *VNode) *VNode {
	if v == nil {
		return nil
	}
	c := *v
	c.instance = nil
	switch v.Shape {
	case ShapeSingle:
		c.Child = Clone(v.Child)
	case ShapeList:
		c.List = make([]*VNode, len(v.List))
		for i, child := range v.List {
			c.List[i] = Clone(child)
		}
	}
	if v.Kind == KindContext {
		c.Child = Clone(v.Child)
	}
	return &c
}
