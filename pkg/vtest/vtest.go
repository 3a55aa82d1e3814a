package vtest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Harness drives a mounted view in tests.
type Harness struct {
	t      testing.TB
	view   func() *vdom.VNode
	Doc    *dom.Document
	Events *events.Registry
	Engine *vdom.Engine
	Root   *vtree.Root
}

// Option configures Mount.
type Option func(*options)

type options struct {
	ctx    vdom.Context
	config vdom.Config
}

// WithContext sets the root context.
func WithContext(ctx vdom.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithConfig sets the engine configuration.
func WithConfig(c vdom.Config) Option {
	return func(o *options) { o.config = c }
}

// Mount renders view into a fresh document. The test fails if the
// first render fails.
func Mount(t testing.TB, view func() *vdom.VNode, opts ...Option) *Harness {
	t.Helper()
	o := options{config: vdom.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	doc := dom.New()
	reg := events.NewRegistry()
	engine := vdom.NewEngine(doc, vdom.WithEvents(reg), vdom.WithConfig(o.config))
	h := &Harness{
		t:      t,
		view:   view,
		Doc:    doc,
		Events: reg,
		Engine: engine,
		Root:   vtree.NewRoot(engine, doc.Root(), o.ctx),
	}
	h.Update()
	return h
}

// Update re-renders the view.
func (h *Harness) Update() {
	h.t.Helper()
	if err := h.Root.Update(h.view()); err != nil {
		h.t.Fatalf("update: %v", err)
	}
}

// Fire dispatches an event at n and re-renders.
func (h *Harness) Fire(typ string, n *dom.Node, value string) {
	h.t.Helper()
	if n == nil {
		h.t.Fatalf("no target for %s event in %s", typ, truncate(h.HTML(), 500))
	}
	if err := h.Events.Dispatch(&events.Event{Type: typ, Target: n.ID, Value: value}); err != nil {
		h.t.Fatalf("dispatch %s on #%d: %v", typ, n.ID, err)
	}
	h.Update()
}

// Click fires a click at n.
func (h *Harness) Click(n *dom.Node) {
	h.t.Helper()
	h.Fire("click", n, "")
}

// Input fires an input event carrying value at n.
func (h *Harness) Input(n *dom.Node, value string) {
	h.t.Helper()
	h.Fire("input", n, value)
}

// Find returns the first node, in document order, that match accepts.
func (h *Harness) Find(match func(*dom.Node) bool) *dom.Node {
	return find(h.Doc.Root(), match)
}

// FindTag returns the first element with the given tag.
func (h *Harness) FindTag(tag string) *dom.Node {
	return h.Find(func(n *dom.Node) bool { return n.Type == dom.ElementNode && n.Tag == tag })
}

// FindText returns the first element with the given tag whose text
// content is text.
func (h *Harness) FindText(tag, text string) *dom.Node {
	return h.Find(func(n *dom.Node) bool {
		return n.Type == dom.ElementNode && n.Tag == tag && textOf(n) == text
	})
}

func find(n *dom.Node, match func(*dom.Node) bool) *dom.Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if f := find(c, match); f != nil {
			return f
		}
	}
	return nil
}

// textOf returns the text an element shows, from its text content or a
// lone text child.
func textOf(n *dom.Node) string {
	if n.Content != "" {
		return n.Content
	}
	if len(n.Children) == 1 && n.Children[0].Type == dom.TextNode {
		return n.Children[0].Value
	}
	return ""
}

// HTML returns the serialized document.
func (h *Harness) HTML() string {
	return h.Doc.HTML()
}

// ExpectHTML asserts the document serializes to want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.HTML()); diff != "" {
		h.t.Errorf("HTML mismatch (-want +got):\n%s", diff)
	}
}

// ExpectContains asserts the document contains s.
func (h *Harness) ExpectContains(s string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, s) {
		h.t.Errorf("expected document to contain %q, got:\n%s", s, truncate(html, 500))
	}
}

// ExpectConvergent replays every op recorded so far onto a fresh
// document and asserts it serializes the same as the mounted one.
func (h *Harness) ExpectConvergent() {
	h.t.Helper()
	replica := dom.New()
	if err := replica.ApplyAll(h.Doc.Ops()); err != nil {
		h.t.Fatalf("replay: %v", err)
	}
	if diff := cmp.Diff(h.HTML(), replica.HTML()); diff != "" {
		h.t.Errorf("replica diverged (-document +replica):\n%s", diff)
	}
}

// RenderToString renders a VNode and returns the HTML string.
// This is useful for asserting on rendered output.
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + render.EscapeAttr(value) + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
