package render

import (
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// RenderBlueprint renders node to a string, copying the cached markup of
// bp wherever node leaves a position unchanged. bp itself is not
// modified.
func RenderBlueprint(bp *Blueprint, node *vdom.VNode, ctx vdom.Context) (string, error) {
	var b strings.Builder
	if err := patchNode(&b, bp, node, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

func patchNode(b *strings.Builder, a *Blueprint, v *vdom.VNode, ctx vdom.Context) error {
	if a.Node == v {
		return checkDeep(b, a, ctx)
	}
	if !vdom.CanSync(a.Node, v) {
		return renderNode(b, v, ctx)
	}

	switch v.Kind {
	case vdom.KindText:
		if a.Node.Text == v.Text {
			b.WriteString(a.Markup)
		} else {
			b.WriteString(EscapeText(v.Text))
		}
		return nil

	case vdom.KindElement:
		if sameOpenTag(a.Node, v) {
			b.WriteString(a.Open)
		} else {
			b.WriteString(OpenTag(v))
		}
		if vdom.IsVoidElement(v.Tag) {
			return nil
		}
		if err := patchChildren(b, a, v, ctx); err != nil {
			return err
		}
		b.WriteString(CloseTag(v))
		return nil

	case vdom.KindStateful:
		if !vdom.PropsChanged(a.Component, a.Node.Props, v.Props) {
			return checkDeep(b, a, ctx)
		}
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return err
		}
		return patchNode(b, a.Children[0], x.Root, ctx)

	case vdom.KindStateless:
		if !vdom.FuncPropsChanged(v.Desc.(*vdom.Func), a.Node.Props, v.Props) {
			return checkDeep(b, a, ctx)
		}
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return err
		}
		return patchNode(b, a.Children[0], x.Root, ctx)

	case vdom.KindConnect:
		return patchConnect(b, a, v, ctx)

	case vdom.KindContext:
		return patchNode(b, a.Children[0], v.Child, vdom.MergeContext(ctx, v.Context))
	}
	return renderNode(b, v, ctx)
}

func patchConnect(b *strings.Builder, a *Blueprint, v *vdom.VNode, ctx vdom.Context) error {
	conn := v.Desc.(*vdom.Connector)
	sel := conn.Select(a.Selector, v.Props, ctx)
	if sel == a.Selector {
		return checkDeep(b, a.Children[0], ctx)
	}
	var out any
	if sel != nil {
		out = sel.Out
	}
	root := conn.Render(out)
	if root == nil {
		return errNilRender(v)
	}
	return patchNode(b, a.Children[0], root, ctx)
}

// checkDeep writes the cached markup of a, re-running any connectors
// below it.
func checkDeep(b *strings.Builder, a *Blueprint, ctx vdom.Context) error {
	if !a.DeepConnect {
		b.WriteString(a.Markup)
		return nil
	}
	v := a.Node
	switch v.Kind {
	case vdom.KindElement:
		b.WriteString(a.Open)
		writeContent(b, v)
		for _, c := range a.Children {
			if err := checkDeep(b, c, ctx); err != nil {
				return err
			}
		}
		b.WriteString(CloseTag(v))
		return nil
	case vdom.KindConnect:
		return patchConnect(b, a, v, ctx)
	case vdom.KindContext:
		return checkDeep(b, a.Children[0], vdom.MergeContext(ctx, v.Context))
	default:
		return checkDeep(b, a.Children[0], ctx)
	}
}

func patchChildren(b *strings.Builder, a *Blueprint, v *vdom.VNode, ctx vdom.Context) error {
	switch v.Shape {
	case vdom.ShapeBasic, vdom.ShapeUnsafeHTML:
		writeContent(b, v)
		return nil

	case vdom.ShapeSingle:
		if prev := a.findChild(v.Child); prev != nil {
			return patchNode(b, prev, v.Child, ctx)
		}
		return renderNode(b, v.Child, ctx)

	case vdom.ShapeList:
		if a.Node.Shape != vdom.ShapeSingle && a.Node.Shape != vdom.ShapeList {
			return renderChildren(b, v, ctx)
		}
		i := 0
		if a.Node.Shape == vdom.ShapeList {
			for ; i < len(a.Children) && i < len(v.List); i++ {
				if !vdom.KeysEqual(a.Children[i].Node, v.List[i]) {
					break
				}
				if err := patchNode(b, a.Children[i], v.List[i], ctx); err != nil {
					return err
				}
			}
		}
		for _, c := range v.List[i:] {
			var err error
			if prev := a.lookup(c); prev != nil {
				err = patchNode(b, prev, c, ctx)
			} else {
				err = renderNode(b, c, ctx)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// findChild finds the child blueprint keyed like v when a holds node
// children.
func (bp *Blueprint) findChild(v *vdom.VNode) *Blueprint {
	switch bp.Node.Shape {
	case vdom.ShapeSingle, vdom.ShapeList:
		for _, c := range bp.Children {
			if vdom.KeysEqual(c.Node, v) {
				return c
			}
		}
	}
	return nil
}

func errNilRender(v *vdom.VNode) error {
	return errors.New(errors.CodeNilRender).WithPath(v.Kind.String())
}
