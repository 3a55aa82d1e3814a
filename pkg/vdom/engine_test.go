package vdom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/render"
	. "github.com/vango-dev/vtree/pkg/vdom"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// harness mounts trees under the root of an in-memory document.
type harness struct {
	t      *testing.T
	doc    *dom.Document
	engine *Engine
	tree   *VNode
}

func newHarness(t *testing.T, opts ...EngineOption) *harness {
	t.Helper()
	doc := dom.New()
	return &harness{t: t, doc: doc, engine: NewEngine(doc, opts...)}
}

func (h *harness) mount(v *VNode) {
	h.t.Helper()
	if _, err := h.engine.Render(h.doc.Root(), nil, v, nil); err != nil {
		h.t.Fatalf("Render: %v", err)
	}
	h.tree = v
	h.doc.ResetOps()
	h.engine.ResetStats()
}

func (h *harness) update(v *VNode) {
	h.t.Helper()
	if err := h.engine.Sync(h.doc.Root(), h.tree, v, nil, SyncAttached); err != nil {
		h.t.Fatalf("Sync: %v", err)
	}
	h.tree = v
}

// assertMatchesRender checks the document against a fresh string render
// of the current tree.
func (h *harness) assertMatchesRender() {
	h.t.Helper()
	want, err := render.RenderToString(Clone(h.tree))
	if err != nil {
		h.t.Fatalf("RenderToString: %v", err)
	}
	if got := h.doc.HTML(); got != want {
		h.t.Errorf("document = %q\nrendered = %q", got, want)
	}
}

func keyed(keys ...string) *VNode {
	return Ul(Range(keys, func(k string, _ int) *VNode {
		return Li(Key(k), k)
	}))
}

func TestRenderMatchesStringRenderer(t *testing.T) {
	h := newHarness(t)
	h.mount(Div(
		Class("card"),
		ID("main"),
		Style{"color": "red", "margin": "0"},
		H1("Title"),
		P("a < b"),
		Input(Type("text"), Disabled(true), Checked(false)),
		Div(UnsafeHTML("<b>raw</b>")),
		Ul(Li("one"), Li("two")),
	))
	h.assertMatchesRender()

	st := h.engine.Stats()
	if st.Creates != 0 {
		t.Errorf("ResetStats left Creates = %d", st.Creates)
	}
}

func TestSyncIdenticalTreeIsNoop(t *testing.T) {
	h := newHarness(t)
	tree := Div(Class("x"), Ul(Li(Key("a"), "a"), Li(Key("b"), "b")), P("text"))
	h.mount(tree)

	h.update(tree)
	if ops := h.doc.Ops(); len(ops) != 0 {
		t.Errorf("sync of the same tree recorded ops: %v", ops)
	}
}

func TestSyncEqualTreeIsNoop(t *testing.T) {
	build := func() *VNode {
		return Div(Class("x"), Attribute("data-n", 3), Style{"color": "red"}, keyed("a", "b", "c"), P("text"))
	}
	h := newHarness(t)
	h.mount(build())
	h.update(build())
	if ops := h.doc.Ops(); len(ops) != 0 {
		t.Errorf("sync of an equal tree recorded ops: %v", ops)
	}
}

func TestSyncPatchesElementInPlace(t *testing.T) {
	h := newHarness(t)
	a := Div(Class("x"), Attribute("title", "old"), Attribute("id", "d"), Style{"color": "red"}, "hello")
	h.mount(a)
	node := a.Instance()

	b := Div(Class("y"), Attribute("title", "new"), Style{"margin": "0"}, "world")
	h.update(b)

	if b.Instance() != node {
		t.Error("element was recreated instead of patched")
	}
	want := []string{
		`SetClass #2 "y"`,
		`RemoveAttr #2 id`,
		`SetAttr #2 title="new"`,
		`RemoveStyle #2 color`,
		`SetStyle #2 margin="0"`,
		`SetTextContent #2 "world"`,
	}
	var got []string
	for _, op := range h.doc.Ops() {
		got = append(got, op.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	h.assertMatchesRender()
}

func TestSyncReplacesIncompatibleNode(t *testing.T) {
	h := newHarness(t)
	a := Section(Div(Class("x"), "content"))
	h.mount(a)
	old := a.Child.Instance()

	b := Section(Span(Class("x"), "content"))
	h.update(b)

	if b.Child.Instance() == old {
		t.Error("span reused the div's target node")
	}
	if got := h.doc.Count(dom.OpReplace); got != 1 {
		t.Errorf("replace ops = %d, want 1", got)
	}
	if got := h.engine.Stats().Replaces; got != 1 {
		t.Errorf("Stats.Replaces = %d, want 1", got)
	}
	h.assertMatchesRender()
}

func TestSyncTextNode(t *testing.T) {
	h := newHarness(t)
	h.mount(P(Strong("a"), Text("x")))
	h.update(P(Strong("a"), Text("y")))

	ops := h.doc.Ops()
	if len(ops) != 1 || ops[0].Kind != dom.OpSetText || ops[0].Value != "y" {
		t.Errorf("ops = %v, want a single SetText", ops)
	}
	h.assertMatchesRender()
}

func TestKeyedReorderMovesOnce(t *testing.T) {
	h := newHarness(t)
	a := keyed("k0", "k1", "k2")
	h.mount(a)
	before := map[string]any{}
	for _, c := range a.List {
		before[c.Key] = c.Instance()
	}

	b := keyed("k2", "k0", "k1")
	h.update(b)

	for _, c := range b.List {
		if c.Instance() != before[c.Key] {
			t.Errorf("%s was recreated", c.Key)
		}
	}
	if got := h.doc.Count(dom.OpMove); got != 1 {
		t.Errorf("moves = %d, want 1", got)
	}
	if got := h.doc.Count(dom.OpCreateElement) + h.doc.Count(dom.OpRemove); got != 0 {
		t.Errorf("creates+removes = %d, want 0", got)
	}
	h.assertMatchesRender()
}

func TestKeyedMonotonicReorderMovesOnlyDisplaced(t *testing.T) {
	h := newHarness(t)
	h.mount(keyed("a", "b", "c", "d", "e"))
	b := keyed("a", "b", "d", "e", "c")
	h.update(b)

	ops := h.doc.Ops()
	if len(ops) != 1 {
		t.Fatalf("ops = %v, want exactly one move", ops)
	}
	if ops[0].Kind != dom.OpMove || ops[0].Node != b.List[4].Instance().(*dom.Node).ID {
		t.Errorf("op = %s, want a move of c", ops[0])
	}
	h.assertMatchesRender()
}

func TestKeyedSwapOfPrefix(t *testing.T) {
	h := newHarness(t)
	h.mount(keyed("0", "1", "2"))
	h.update(keyed("1", "0", "2"))

	if got := h.doc.Count(dom.OpMove); got != 1 {
		t.Errorf("moves = %d, want 1", got)
	}
	if got := h.doc.Count(dom.OpInsert) + h.doc.Count(dom.OpRemove); got != 0 {
		t.Errorf("inserts+removes = %d, want 0", got)
	}
	if got := h.doc.Count(dom.OpSetTextContent) + h.doc.Count(dom.OpSetText); got != 0 {
		t.Errorf("text ops = %d, want 0", got)
	}
	h.assertMatchesRender()
}

func TestKeyedInsertBeforeSingle(t *testing.T) {
	h := newHarness(t)
	a := Ul(Li(Key(1), "A"))
	h.mount(a)
	anchor := a.Child.Instance()

	b := Ul(Li(Key(2), "B"), Li(Key(1), "A"))
	h.update(b)

	if b.List[1].Instance() != anchor {
		t.Error("A was recreated")
	}
	ops := h.doc.Ops()
	var inserts []dom.Op
	for _, op := range ops {
		if op.Kind == dom.OpInsert && op.Parent == anchor.(*dom.Node).Parent.ID {
			inserts = append(inserts, op)
		}
	}
	if len(inserts) != 1 || inserts[0].Ref != anchor.(*dom.Node).ID {
		t.Errorf("inserts = %v, want one insert before A", inserts)
	}
	if got := h.doc.Count(dom.OpMove); got != 0 {
		t.Errorf("moves = %d, want 0", got)
	}
	h.assertMatchesRender()
}

func TestKeyedListInsertBeforeList(t *testing.T) {
	h := newHarness(t)
	h.mount(keyed("1"))
	h.update(keyed("2", "1"))
	if got := h.doc.Count(dom.OpMove); got != 0 {
		t.Errorf("moves = %d, want 0", got)
	}
	if got := h.engine.Stats().Inserts; got != 1 {
		t.Errorf("Stats.Inserts = %d, want 1", got)
	}
	h.assertMatchesRender()
}

func TestKeyedDisjointListClearsOnce(t *testing.T) {
	h := newHarness(t)
	h.mount(keyed("a", "b", "c"))
	h.update(keyed("x", "y"))

	if got := h.engine.Stats().Clears; got != 1 {
		t.Errorf("Stats.Clears = %d, want 1", got)
	}
	if got := h.doc.Count(dom.OpRemove); got != 0 {
		t.Errorf("removes = %d, want 0 after a bulk clear", got)
	}
	h.assertMatchesRender()
}

func TestKeyedAppendPrependAndRemove(t *testing.T) {
	tests := []struct {
		name     string
		from, to []string
		moves    int
	}{
		{"append", []string{"a", "b"}, []string{"a", "b", "c", "d"}, 0},
		{"prepend", []string{"c", "d"}, []string{"a", "b", "c", "d"}, 0},
		{"insert middle", []string{"a", "d"}, []string{"a", "b", "c", "d"}, 0},
		{"remove middle", []string{"a", "b", "c", "d"}, []string{"a", "d"}, 0},
		{"remove and reorder", []string{"a", "b", "c", "d", "e"}, []string{"e", "c", "a"}, 2},
		{"reverse", []string{"a", "b", "c", "d"}, []string{"d", "c", "b", "a"}, 3},
		{"replace middle", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.mount(keyed(tt.from...))
			h.update(keyed(tt.to...))
			if got := h.doc.Count(dom.OpMove); got != tt.moves {
				t.Errorf("moves = %d, want %d", got, tt.moves)
			}
			h.assertMatchesRender()
		})
	}
}

func TestImplicitKeysFollowSlots(t *testing.T) {
	h := newHarness(t)
	show := func(first bool) *VNode {
		return Div(
			If(first, Span(Key("x"), "first")),
			P("middle"),
			Input(Type("text")),
		)
	}
	a := show(true)
	h.mount(a)
	p := a.List[1].Instance()
	input := a.List[2].Instance()

	b := show(false)
	h.update(b)
	if b.List[0].Instance() != p || b.List[1].Instance() != input {
		t.Error("hiding a conditional child recreated its siblings")
	}
	if got := h.doc.Count(dom.OpRemove); got != 1 {
		t.Errorf("removes = %d, want 1", got)
	}

	c := show(true)
	h.update(c)
	if c.List[1].Instance() != p {
		t.Error("showing a conditional child recreated its siblings")
	}
	h.assertMatchesRender()
}

func TestExplicitKeyNeverMatchesImplicit(t *testing.T) {
	a := &VNode{Kind: KindText, Index: 1}
	b := &VNode{Kind: KindText, Key: "#1", ExplicitKey: true}
	if KeysEqual(a, b) {
		t.Error("implicit key matched explicit key")
	}
}

func TestChildShapeTransitions(t *testing.T) {
	shapes := map[string]func() *VNode{
		"none":   func() *VNode { return Div() },
		"basic":  func() *VNode { return Div("text") },
		"unsafe": func() *VNode { return Div(UnsafeHTML("<i>x</i>")) },
		"single": func() *VNode { return Div(Span("one")) },
		"list":   func() *VNode { return Div(Span("one"), Em("two")) },
		"keyed":  func() *VNode { return Div(keyed("a", "b").List) },
		"empty":  func() *VNode { return Div([]*VNode{}) },
	}
	for fromName, from := range shapes {
		for toName, to := range shapes {
			t.Run(fromName+"->"+toName, func(t *testing.T) {
				h := newHarness(t)
				h.mount(from())
				h.update(to())
				h.assertMatchesRender()
			})
		}
	}
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	tree := Div(Span("x"))
	h.mount(tree)
	if err := h.engine.Remove(h.doc.Root(), tree); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := h.doc.HTML(); got != "" {
		t.Errorf("HTML() = %q after remove", got)
	}
	if h.doc.Len() != 1 {
		t.Errorf("Len() = %d, want only the root", h.doc.Len())
	}
}

func TestRenderBeforeRef(t *testing.T) {
	h := newHarness(t)
	first := P("second")
	ref, err := h.engine.Render(h.doc.Root(), nil, first, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.engine.Render(h.doc.Root(), ref, P("first"), nil); err != nil {
		t.Fatal(err)
	}
	if got, want := h.doc.HTML(), "<p>first</p><p>second</p>"; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestPreconditionErrors(t *testing.T) {
	t.Run("reused node", func(t *testing.T) {
		h := newHarness(t)
		n := P("x")
		h.mount(n)
		_, err := h.engine.Render(h.doc.Root(), nil, n, nil)
		if errors.Code(err) != errors.CodeNodeReused {
			t.Errorf("err = %v, want %s", err, errors.CodeNodeReused)
		}
	})
	t.Run("reused node in new tree", func(t *testing.T) {
		h := newHarness(t)
		shared := Span("s")
		h.mount(Div(shared))
		err := h.engine.Sync(h.doc.Root(), h.tree, Section(shared), nil, SyncAttached)
		if errors.Code(err) != errors.CodeNodeReused {
			t.Errorf("err = %v, want %s", err, errors.CodeNodeReused)
		}
	})
	t.Run("unrendered old tree", func(t *testing.T) {
		h := newHarness(t)
		err := h.engine.Sync(h.doc.Root(), P("a"), P("b"), nil, 0)
		if errors.Code(err) != errors.CodeDetachedNode {
			t.Errorf("err = %v, want %s", err, errors.CodeDetachedNode)
		}
	})
	t.Run("remove unrendered", func(t *testing.T) {
		h := newHarness(t)
		if err := h.engine.Remove(h.doc.Root(), P("a")); errors.Code(err) != errors.CodeDetachedNode {
			t.Errorf("err = %v, want %s", err, errors.CodeDetachedNode)
		}
	})
	t.Run("nil node", func(t *testing.T) {
		h := newHarness(t)
		if _, err := h.engine.Render(h.doc.Root(), nil, nil, nil); errors.Code(err) != errors.CodeInvalidChild {
			t.Errorf("err = %v, want %s", err, errors.CodeInvalidChild)
		}
	})
	t.Run("debug catches hand built duplicates", func(t *testing.T) {
		h := newHarness(t, WithConfig(Config{Debug: true}))
		h.mount(keyed("a"))
		bad := &VNode{Kind: KindElement, Tag: "ul", Shape: ShapeList, List: []*VNode{
			Li(Key("a"), "a"), Li(Key("a"), "again"),
		}}
		err := h.engine.Sync(h.doc.Root(), h.tree, bad, nil, SyncAttached)
		if errors.Code(err) != errors.CodeDuplicateKey {
			t.Errorf("err = %v, want %s", err, errors.CodeDuplicateKey)
		}
	})
	t.Run("debug checks lists on render", func(t *testing.T) {
		tests := []struct {
			name string
			list []*VNode
			want string
		}{
			{"duplicate keys", []*VNode{Li(Key("a"), "a"), Li(Key("a"), "again")}, errors.CodeDuplicateKey},
			{"misordered slots", []*VNode{{Kind: KindText, Index: 1}, {Kind: KindText, Index: 0}}, errors.CodeInvalidChild},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newHarness(t, WithConfig(Config{Debug: true}))
				bad := &VNode{Kind: KindElement, Tag: "ul", Shape: ShapeList, List: tt.list}
				_, err := h.engine.Render(h.doc.Root(), nil, bad, nil)
				if errors.Code(err) != tt.want {
					t.Fatalf("err = %v, want %s", err, tt.want)
				}
				if ve, ok := err.(*errors.Error); !ok || ve.Path == "" {
					t.Errorf("error carries no path: %v", err)
				}
			})
		}
	})
	t.Run("debug accepts builder lists", func(t *testing.T) {
		h := newHarness(t, WithConfig(Config{Debug: true}))
		h.mount(keyed("a", "b", "c"))
		h.update(keyed("c", "a", "b"))
		h.assertMatchesRender()
	})
}

func TestDuplicateKeysPanicAtConstruction(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*errors.Error)
		if !ok || err.Code != errors.CodeDuplicateKey {
			t.Errorf("recover() = %v, want %s", r, errors.CodeDuplicateKey)
		}
	}()
	Ul(Li(Key("a")), Li(Key("a")))
	t.Error("builder accepted duplicate keys")
}

func TestCollaboratorPanicPropagates(t *testing.T) {
	boom := &Func{Name: "Boom", Render: func(any) *VNode { panic("boom") }}
	h := newHarness(t)
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want boom", r)
		}
		// The engine is usable again after the panic unwound it.
		if _, err := h.engine.Render(h.doc.Root(), nil, P("ok"), nil); err != nil {
			t.Errorf("Render after panic: %v", err)
		}
	}()
	_, _ = h.engine.Render(h.doc.Root(), nil, boom.Node(nil), nil)
}

func TestWithConfigDefaults(t *testing.T) {
	e := NewEngine(dom.New(), WithConfig(Config{Debug: true}))
	want := Config{Debug: true, KeyIndexThreshold: 32, KeyIndexMinNew: 4}
	if diff := cmp.Diff(want, e.Config()); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}
