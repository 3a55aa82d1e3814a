package dom

import (
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func attrString(v any) (string, bool) { return render.AttrString(v) }

// HTML serializes the children of the root container.
func (d *Document) HTML() string {
	return InnerHTML(d.root)
}

// InnerHTML serializes the content of n.
func InnerHTML(n *Node) string {
	var b strings.Builder
	writeInner(&b, n)
	return b.String()
}

// OuterHTML serializes n and its content.
func OuterHTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n.Type == TextNode {
		b.WriteString(render.EscapeText(n.Value))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	if n.ClassName != "" {
		render.WriteAttr(b, "class", n.ClassName)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		render.WriteAttr(b, k, n.Attrs[k])
	}
	if len(n.Style) > 0 {
		render.WriteAttr(b, "style", render.StyleString(slices.Sorted(maps.Keys(n.Style)), n.Style))
	}
	b.WriteByte('>')
	if vdom.IsVoidElement(n.Tag) {
		return
	}
	writeInner(b, n)
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func writeInner(b *strings.Builder, n *Node) {
	b.WriteString(render.EscapeText(n.Content))
	b.WriteString(n.HTML)
	for _, c := range n.Children {
		writeNode(b, c)
	}
}
