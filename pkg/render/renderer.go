package render

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Context is the root context passed to connectors and components.
	Context vdom.Context

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer handles server-side rendering of virtual trees to HTML.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{config: config, logger: logger}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var b strings.Builder
	if err := renderNode(&b, node, r.config.Context); err != nil {
		r.logger.Debug("render: failed", "error", err)
		return "", err
	}
	return b.String(), nil
}

// RenderToWriter renders a tree and writes it to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	s, err := r.RenderToString(node)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// RenderToString renders a tree with an empty context.
func RenderToString(node *vdom.VNode) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}

func renderNode(b *strings.Builder, v *vdom.VNode, ctx vdom.Context) error {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case vdom.KindText:
		b.WriteString(EscapeText(v.Text))
		return nil
	case vdom.KindElement:
		b.WriteString(OpenTag(v))
		if vdom.IsVoidElement(v.Tag) {
			return nil
		}
		if err := renderChildren(b, v, ctx); err != nil {
			return err
		}
		b.WriteString(CloseTag(v))
		return nil
	default:
		x, err := vdom.Expand(v, ctx)
		if err != nil {
			return err
		}
		return renderNode(b, x.Root, x.Context)
	}
}

func renderChildren(b *strings.Builder, v *vdom.VNode, ctx vdom.Context) error {
	switch v.Shape {
	case vdom.ShapeBasic:
		b.WriteString(EscapeText(v.Text))
	case vdom.ShapeUnsafeHTML:
		b.WriteString(v.Text)
	case vdom.ShapeSingle:
		return renderNode(b, v.Child, ctx)
	case vdom.ShapeList:
		for _, c := range v.List {
			if err := renderNode(b, c, ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// OpenTag renders the opening tag of an element: class first, then
// attributes in key order, then inline style.
func OpenTag(v *vdom.VNode) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(v.Tag)
	if v.ClassName != "" {
		WriteAttr(&b, "class", v.ClassName)
	}
	for _, k := range slices.Sorted(maps.Keys(v.Attrs)) {
		if s, ok := AttrString(v.Attrs[k]); ok {
			WriteAttr(&b, k, s)
		}
	}
	if len(v.Style) > 0 {
		WriteAttr(&b, "style", StyleString(slices.Sorted(maps.Keys(v.Style)), v.Style))
	}
	b.WriteByte('>')
	return b.String()
}

// CloseTag renders the closing tag of an element, or "" for void elements.
func CloseTag(v *vdom.VNode) string {
	if vdom.IsVoidElement(v.Tag) {
		return ""
	}
	return "</" + v.Tag + ">"
}
