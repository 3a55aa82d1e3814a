package render

import (
	"maps"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Blueprint is the cached render of one tree position.
type Blueprint struct {
	// Node is the node this position was built from.
	Node *vdom.VNode
	// Open is the opening tag of an element.
	Open string
	// Markup is the complete markup of the subtree.
	Markup string
	// Children holds element children, or the single rendered root of a
	// component or context node.
	Children []*Blueprint
	// Component is the instance a stateful node rendered with.
	Component vdom.Component
	// Selector is what a connect node selected.
	Selector *vdom.SelectorData
	// DeepConnect is set when a connector lives in the subtree, so the
	// cached markup may go stale when the context changes.
	DeepConnect bool

	keyIndex    map[string]*Blueprint
	posIndex    map[int]*Blueprint
	prerendered bool
}

func newBlueprint(v *vdom.VNode, children []*Blueprint) *Blueprint {
	bp := &Blueprint{Node: v, Children: children}
	if v.Kind == vdom.KindElement && v.Shape == vdom.ShapeList {
		for _, c := range children {
			if c.Node.ExplicitKey {
				if bp.keyIndex == nil {
					bp.keyIndex = make(map[string]*Blueprint)
				}
				bp.keyIndex[c.Node.Key] = c
			} else {
				if bp.posIndex == nil {
					bp.posIndex = make(map[int]*Blueprint)
				}
				bp.posIndex[c.Node.Index] = c
			}
		}
	}
	return bp
}

// CreateBlueprint renders node into a blueprint. When prev is not nil,
// positions of prev that node leaves unchanged are reused together with
// their markup.
func CreateBlueprint(node *vdom.VNode, ctx vdom.Context, prev *Blueprint) (*Blueprint, error) {
	var (
		bp  *Blueprint
		err error
	)
	if prev == nil {
		bp, err = createBlueprint(node, ctx)
	} else {
		bp, err = diffBlueprint(prev, node, ctx)
	}
	if err != nil {
		return nil, err
	}
	prerender(bp)
	return bp, nil
}

func createBlueprint(v *vdom.VNode, ctx vdom.Context) (*Blueprint, error) {
	switch v.Kind {
	case vdom.KindText:
		return newBlueprint(v, nil), nil
	case vdom.KindElement:
		children, err := createChildBlueprints(v.Children(), ctx)
		if err != nil {
			return nil, err
		}
		return newBlueprint(v, children), nil
	default:
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return nil, err
		}
		root, err := createBlueprint(x.Root, x.Context)
		if err != nil {
			return nil, err
		}
		bp := newBlueprint(v, []*Blueprint{root})
		bp.Component = x.Component
		bp.Selector = x.Selector
		return bp, nil
	}
}

func createChildBlueprints(list []*vdom.VNode, ctx vdom.Context) ([]*Blueprint, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*Blueprint, len(list))
	for i, c := range list {
		bp, err := createBlueprint(c, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = bp
	}
	return out, nil
}

// diffBlueprint returns bp itself when v renders the same markup.
func diffBlueprint(bp *Blueprint, v *vdom.VNode, ctx vdom.Context) (*Blueprint, error) {
	if bp.Node == v {
		return refreshBlueprint(bp, ctx)
	}
	if !vdom.CanSync(bp.Node, v) {
		return createBlueprint(v, ctx)
	}

	switch v.Kind {
	case vdom.KindText:
		if bp.Node.Text == v.Text {
			return bp, nil
		}
		return newBlueprint(v, nil), nil

	case vdom.KindElement:
		children, err := diffChildBlueprints(bp, v, ctx)
		if err != nil {
			return nil, err
		}
		if sameOpenTag(bp.Node, v) && sameContent(bp.Node, v) && sameBlueprints(bp.Children, children) {
			return bp, nil
		}
		return newBlueprint(v, children), nil

	case vdom.KindStateful:
		if !vdom.PropsChanged(bp.Component, bp.Node.Props, v.Props) {
			return refreshRoot(bp, ctx)
		}
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return nil, err
		}
		return rebuildRoot(bp, v, x, ctx)

	case vdom.KindStateless:
		if !vdom.FuncPropsChanged(v.Desc.(*vdom.Func), bp.Node.Props, v.Props) {
			return refreshRoot(bp, ctx)
		}
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return nil, err
		}
		return rebuildRoot(bp, v, x, ctx)

	case vdom.KindConnect:
		return reselect(bp, v, ctx)

	case vdom.KindContext:
		merged := vdom.MergeContext(ctx, v.Context)
		root, err := diffBlueprint(bp.Children[0], v.Child, merged)
		if err != nil {
			return nil, err
		}
		if root == bp.Children[0] {
			return bp, nil
		}
		return newBlueprint(v, []*Blueprint{root}), nil
	}
	return createBlueprint(v, ctx)
}

func rebuildRoot(bp *Blueprint, v *vdom.VNode, x vdom.Expansion, ctx vdom.Context) (*Blueprint, error) {
	root, err := diffBlueprint(bp.Children[0], x.Root, ctx)
	if err != nil {
		return nil, err
	}
	n := newBlueprint(v, []*Blueprint{root})
	n.Component = x.Component
	n.Selector = x.Selector
	return n, nil
}

func refreshRoot(bp *Blueprint, ctx vdom.Context) (*Blueprint, error) {
	root, err := refreshBlueprint(bp.Children[0], ctx)
	if err != nil {
		return nil, err
	}
	if root == bp.Children[0] {
		return bp, nil
	}
	n := newBlueprint(bp.Node, []*Blueprint{root})
	n.Component = bp.Component
	n.Selector = bp.Selector
	return n, nil
}

// reselect runs the connector of v against what bp selected before.
func reselect(bp *Blueprint, v *vdom.VNode, ctx vdom.Context) (*Blueprint, error) {
	conn := v.Desc.(*vdom.Connector)
	sel := conn.Select(bp.Selector, v.Props, ctx)
	if sel == bp.Selector {
		return refreshRoot(bp, ctx)
	}
	var out any
	if sel != nil {
		out = sel.Out
	}
	root := conn.Render(out)
	if root == nil {
		return nil, errNilRender(v)
	}
	n, err := diffBlueprint(bp.Children[0], root, ctx)
	if err != nil {
		return nil, err
	}
	nb := newBlueprint(v, []*Blueprint{n})
	nb.Selector = sel
	return nb, nil
}

// refreshBlueprint re-runs the connectors below bp, which is reused as is
// otherwise.
func refreshBlueprint(bp *Blueprint, ctx vdom.Context) (*Blueprint, error) {
	if !bp.DeepConnect {
		return bp, nil
	}
	switch bp.Node.Kind {
	case vdom.KindElement:
		var children []*Blueprint
		for i, c := range bp.Children {
			n, err := refreshBlueprint(c, ctx)
			if err != nil {
				return nil, err
			}
			if n != c && children == nil {
				children = make([]*Blueprint, len(bp.Children))
				copy(children, bp.Children[:i])
			}
			if children != nil {
				children[i] = n
			}
		}
		if children == nil {
			return bp, nil
		}
		return newBlueprint(bp.Node, children), nil
	case vdom.KindConnect:
		return reselect(bp, bp.Node, ctx)
	case vdom.KindContext:
		root, err := refreshBlueprint(bp.Children[0], vdom.MergeContext(ctx, bp.Node.Context))
		if err != nil {
			return nil, err
		}
		if root == bp.Children[0] {
			return bp, nil
		}
		return newBlueprint(bp.Node, []*Blueprint{root}), nil
	case vdom.KindStateful, vdom.KindStateless:
		return refreshRoot(bp, ctx)
	}
	return bp, nil
}

func diffChildBlueprints(bp *Blueprint, v *vdom.VNode, ctx vdom.Context) ([]*Blueprint, error) {
	a := bp.Node
	switch v.Shape {
	case vdom.ShapeSingle:
		switch a.Shape {
		case vdom.ShapeSingle, vdom.ShapeList:
			for _, c := range bp.Children {
				if vdom.KeysEqual(c.Node, v.Child) {
					n, err := diffBlueprint(c, v.Child, ctx)
					if err != nil {
						return nil, err
					}
					return []*Blueprint{n}, nil
				}
			}
		}
		return createChildBlueprints(v.Children(), ctx)

	case vdom.ShapeList:
		if a.Shape != vdom.ShapeSingle && a.Shape != vdom.ShapeList {
			return createChildBlueprints(v.List, ctx)
		}
		out := make([]*Blueprint, len(v.List))
		for i, c := range v.List {
			prev := bp.lookup(c)
			var (
				n   *Blueprint
				err error
			)
			if prev == nil {
				n, err = createBlueprint(c, ctx)
			} else {
				n, err = diffBlueprint(prev, c, ctx)
			}
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, nil
}

// lookup finds the child blueprint keyed like v.
func (bp *Blueprint) lookup(v *vdom.VNode) *Blueprint {
	if bp.Node.Shape == vdom.ShapeSingle {
		if c := bp.Children[0]; vdom.KeysEqual(c.Node, v) {
			return c
		}
		return nil
	}
	if v.ExplicitKey {
		return bp.keyIndex[v.Key]
	}
	return bp.posIndex[v.Index]
}

// prerender fills in markup for every position that does not have it yet.
func prerender(bp *Blueprint) {
	if bp.prerendered {
		return
	}
	bp.prerendered = true
	v := bp.Node

	for _, c := range bp.Children {
		prerender(c)
		if c.DeepConnect {
			bp.DeepConnect = true
		}
	}

	switch v.Kind {
	case vdom.KindText:
		bp.Markup = EscapeText(v.Text)
	case vdom.KindElement:
		bp.Open = OpenTag(v)
		if vdom.IsVoidElement(v.Tag) {
			bp.Markup = bp.Open
			return
		}
		var b strings.Builder
		b.WriteString(bp.Open)
		writeContent(&b, v)
		for _, c := range bp.Children {
			b.WriteString(c.Markup)
		}
		b.WriteString(CloseTag(v))
		bp.Markup = b.String()
	case vdom.KindConnect:
		bp.DeepConnect = true
		bp.Markup = bp.Children[0].Markup
	default:
		bp.Markup = bp.Children[0].Markup
	}
}

// writeContent writes basic or unsafe HTML element content.
func writeContent(b *strings.Builder, v *vdom.VNode) {
	switch v.Shape {
	case vdom.ShapeBasic:
		b.WriteString(EscapeText(v.Text))
	case vdom.ShapeUnsafeHTML:
		b.WriteString(v.Text)
	}
}

func sameOpenTag(a, b *vdom.VNode) bool {
	return a.Tag == b.Tag &&
		a.ClassName == b.ClassName &&
		maps.Equal(a.Style, b.Style) &&
		maps.EqualFunc(a.Attrs, b.Attrs, func(x, y any) bool {
			sx, okx := AttrString(x)
			sy, oky := AttrString(y)
			return okx == oky && sx == sy
		})
}

func sameContent(a, b *vdom.VNode) bool {
	switch b.Shape {
	case vdom.ShapeBasic, vdom.ShapeUnsafeHTML:
		return a.Shape == b.Shape && a.Text == b.Text
	default:
		return a.Shape == b.Shape
	}
}

func sameBlueprints(a, b []*Blueprint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
