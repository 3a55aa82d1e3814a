package vtest_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
	"github.com/vango-dev/vtree/pkg/vtest"
)

// recorder captures failures without failing the enclosing test.
type recorder struct {
	testing.TB
	failed bool
	msg    string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
}

func TestMountAndClick(t *testing.T) {
	count := 0
	h := vtest.Mount(t, func() *vdom.VNode {
		return vdom.Div(
			vdom.Button(vdom.OnClick(func() { count++ }), "+"),
			vdom.Span(strconv.Itoa(count)),
		)
	})
	h.ExpectHTML("<div><button>+</button><span>0</span></div>")

	h.Click(h.FindText("button", "+"))
	h.Click(h.FindText("button", "+"))
	h.ExpectHTML("<div><button>+</button><span>2</span></div>")
	h.ExpectConvergent()
}

func TestInputAndKeyedList(t *testing.T) {
	var items []string
	draft := ""
	h := vtest.Mount(t, func() *vdom.VNode {
		return vdom.Div(
			vdom.Input(vdom.Value(draft), vdom.OnInput(func(v string) { draft = v })),
			vdom.Button(vdom.OnClick(func() {
				items = append([]string{draft}, items...)
				draft = ""
			}), "add"),
			vdom.Ul(vdom.Range(items, func(s string, _ int) *vdom.VNode {
				return vdom.Li(vdom.Key(s), s)
			})),
		)
	})

	for _, s := range []string{"a", "b", "c"} {
		h.Input(h.FindTag("input"), s)
		h.Click(h.FindText("button", "add"))
	}
	h.ExpectContains("<ul><li>c</li><li>b</li><li>a</li></ul>")
	h.ExpectConvergent()

	if got := h.Engine.Stats().Moves; got != 0 {
		t.Errorf("prepending moved %d nodes", got)
	}
}

func TestWithContext(t *testing.T) {
	h := vtest.Mount(t, func() *vdom.VNode {
		return vdom.Div(vdom.ID("x"))
	}, vtest.WithContext(vdom.Context{"theme": "dark"}), vtest.WithConfig(vdom.Config{KeyIndexThreshold: 1}))

	if got := h.Root.Context()["theme"]; got != "dark" {
		t.Errorf("context theme = %v", got)
	}
	if h.Find(func(n *dom.Node) bool { return n.Attrs["id"] == "x" }) == nil {
		t.Errorf("no element with id x in %s", h.HTML())
	}
}

func TestHarnessReportsMismatch(t *testing.T) {
	h := vtest.Mount(t, func() *vdom.VNode { return vdom.P("hi") })

	rec := &recorder{TB: t}
	other := vtest.Mount(rec, func() *vdom.VNode { return vdom.P("hi") })
	other.ExpectHTML("<p>bye</p>")
	if !rec.failed {
		t.Error("ExpectHTML passed on a mismatch")
	}
	h.ExpectHTML("<p>hi</p>")
}

func TestRenderToString(t *testing.T) {
	node := vdom.Div(
		vdom.Class("container"),
		vdom.H1(vdom.Text("Hello")),
		vdom.P(vdom.Text("World")),
	)

	want := `<div class="container"><h1>Hello</h1><p>World</p></div>`
	if got := vtest.RenderToString(node); got != want {
		t.Errorf("RenderToString = %q, want %q", got, want)
	}
}

func TestRenderAssertions(t *testing.T) {
	node := vdom.Div(vdom.Class("a&b"), vdom.A(vdom.Href("/x"), "Hello World"))

	tests := []struct {
		name  string
		check func(testing.TB)
		fail  bool
	}{
		{"contains", func(tb testing.TB) { vtest.ExpectContains(tb, node, "Hello") }, false},
		{"contains missing", func(tb testing.TB) { vtest.ExpectContains(tb, node, "Goodbye") }, true},
		{"not contains", func(tb testing.TB) { vtest.ExpectNotContains(tb, node, "Goodbye") }, false},
		{"not contains present", func(tb testing.TB) { vtest.ExpectNotContains(tb, node, "World") }, true},
		{"element", func(tb testing.TB) { vtest.ExpectElement(tb, node, "a") }, false},
		{"element missing", func(tb testing.TB) { vtest.ExpectElement(tb, node, "form") }, true},
		{"attribute escaped", func(tb testing.TB) { vtest.ExpectAttribute(tb, node, "class", "a&b") }, false},
		{"attribute missing", func(tb testing.TB) { vtest.ExpectAttribute(tb, node, "href", "/y") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{TB: t}
			tt.check(rec)
			if rec.failed != tt.fail {
				t.Errorf("failed = %v, want %v (%s)", rec.failed, tt.fail, rec.msg)
			}
		})
	}
}
