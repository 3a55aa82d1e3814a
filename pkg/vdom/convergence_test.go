package vdom_test

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	. "github.com/vango-dev/vtree/pkg/vdom"
)

// treeGen builds random trees over a small vocabulary so that successive
// trees share keys, tags and attributes often enough to exercise patching.
type treeGen struct {
	r *rand.Rand
}

var tags = []string{"div", "span", "p", "li", "section"}

func (g treeGen) node(depth int) *VNode {
	if depth == 0 || g.r.IntN(4) == 0 {
		return Text("t" + strconv.Itoa(g.r.IntN(3)))
	}
	switch g.r.IntN(12) {
	case 0:
		return genStateful.Node(g.props(depth))
	case 1:
		return genFunc.Node(g.props(depth))
	case 2:
		return genConnect.Node(g.props(depth))
	case 3:
		return WithContext(Context{"theme": g.r.IntN(2)}, g.node(depth-1))
	}
	var args []any
	if g.r.IntN(2) == 0 {
		args = append(args, Class("c"+strconv.Itoa(g.r.IntN(3))))
	}
	if g.r.IntN(2) == 0 {
		args = append(args, Attribute("title", "v"+strconv.Itoa(g.r.IntN(3))))
	}
	if g.r.IntN(3) == 0 {
		args = append(args, Disabled(g.r.IntN(2) == 0))
	}
	if g.r.IntN(3) == 0 {
		args = append(args, Style{"color": []string{"red", "blue"}[g.r.IntN(2)]})
	}
	switch g.r.IntN(6) {
	case 0:
		args = append(args, "text"+strconv.Itoa(g.r.IntN(2)))
	case 1:
		args = append(args, g.node(depth-1))
	case 2:
		args = append(args, g.keyedList(depth-1))
	case 3:
		args = append(args, UnsafeHTML("<b>u"+strconv.Itoa(g.r.IntN(2))+"</b>"))
	case 4:
		for i := g.r.IntN(4); i >= 0; i-- {
			if g.r.IntN(4) == 0 {
				args = append(args, (*VNode)(nil))
				continue
			}
			args = append(args, g.node(depth-1))
		}
	}
	return El(tags[g.r.IntN(len(tags))], args...)
}

// props picks from a few seeds so that successive trees often hand a
// component the same props and it skips rendering.
func (g treeGen) props(depth int) genProps {
	return genProps{Seed: uint64(g.r.IntN(4)), Depth: depth - 1}
}

// genProps seeds the subtree a generated component renders. Rendering is
// a pure function of the props, so a fresh string render agrees with the
// live tree.
type genProps struct {
	Seed  uint64
	Depth int
}

func (p genProps) tree() *VNode {
	return treeGen{r: rand.New(rand.NewPCG(p.Seed, uint64(p.Depth)))}.node(p.Depth)
}

type genComponent struct {
	Base
}

func (c *genComponent) Render() *VNode {
	return c.Props().(genProps).tree()
}

var (
	genStateful = &Stateful{Name: "Gen", New: func(any) Component { return &genComponent{} }}
	genFunc     = &Func{Name: "GenFunc", Render: func(props any) *VNode { return props.(genProps).tree() }}
	genConnect  = &Connector{
		Name: "GenConnect",
		Select: func(prev *SelectorData, props any, ctx Context) *SelectorData {
			theme, _ := ctx["theme"].(int)
			p := props.(genProps)
			in := genProps{Seed: p.Seed + 10*uint64(theme), Depth: p.Depth}
			if prev != nil && prev.In == in {
				return prev
			}
			return &SelectorData{In: in, Out: in}
		},
		Render: func(out any) *VNode { return out.(genProps).tree() },
	}
)

func (g treeGen) keyedList(depth int) []*VNode {
	keys := g.r.Perm(12)[:g.r.IntN(12)]
	list := make([]*VNode, 0, len(keys))
	for _, k := range keys {
		child := g.node(depth)
		if child.Kind == KindText {
			child = Li(child)
		}
		child.Key = strconv.Itoa(k)
		child.ExplicitKey = true
		list = append(list, child)
	}
	return list
}

func TestSyncConverges(t *testing.T) {
	g := treeGen{r: rand.New(rand.NewPCG(1, 2))}
	for round := 0; round < 50; round++ {
		t.Run(fmt.Sprint(round), func(t *testing.T) {
			h := newHarness(t)
			h.mount(Main(g.node(4)))
			h.assertMatchesRender()
			for step := 0; step < 8; step++ {
				h.update(Main(g.node(4)))
				h.assertMatchesRender()
			}
		})
	}
}

func TestSyncConvergesWithKeyIndex(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	list := func() *VNode {
		keys := r.Perm(80)[:20+r.IntN(60)]
		return Ul(Range(keys, func(k, _ int) *VNode {
			return Li(Key(k), Attribute("data-v", r.IntN(2)), strconv.Itoa(k))
		}))
	}
	for _, cfg := range []Config{
		{},
		{KeyIndexThreshold: 1 << 20, KeyIndexMinNew: 1 << 20},
	} {
		h := newHarness(t, WithConfig(cfg))
		h.mount(list())
		for step := 0; step < 20; step++ {
			h.update(list())
			h.assertMatchesRender()
		}
	}
}

// A replica fed only the recorded ops ends up with the same document.
func TestOpsReplayToReplica(t *testing.T) {
	g := treeGen{r: rand.New(rand.NewPCG(5, 6))}
	h := newHarness(t)
	replica := dom.New()
	h.doc.OnOp(func(op dom.Op) {
		if err := replica.Apply(op); err != nil {
			t.Fatalf("Apply(%s): %v", op, err)
		}
	})

	h.mount(Main(g.node(4)))
	for step := 0; step < 30; step++ {
		h.update(Main(g.node(4)))
		if got, want := replica.HTML(), h.doc.HTML(); got != want {
			t.Fatalf("step %d: replica = %q\nwant %q", step, got, want)
		}
	}
}

func TestMovesAreMinimal(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 9))
	for round := 0; round < 100; round++ {
		n := 2 + r.IntN(20)
		from := r.Perm(n)
		to := r.Perm(n)

		h := newHarness(t)
		h.mount(Ul(Range(from, func(k, _ int) *VNode { return Li(Key(k), strconv.Itoa(k)) })))
		h.update(Ul(Range(to, func(k, _ int) *VNode { return Li(Key(k), strconv.Itoa(k)) })))

		// Map every new position to the old position of the same key;
		// nodes outside a longest increasing run must move.
		oldPos := make(map[int]int, n)
		for i, k := range from {
			oldPos[k] = i
		}
		seq := make([]int, n)
		for i, k := range to {
			seq[i] = oldPos[k]
		}
		if got, want := h.doc.Count(dom.OpMove), n-longestIncreasing(seq); got != want {
			t.Errorf("%v -> %v: moves = %d, want %d", from, to, got, want)
		}
		if h.doc.Count(dom.OpCreateElement) != 0 || h.doc.Count(dom.OpRemove) != 0 {
			t.Errorf("%v -> %v: permutation recreated nodes", from, to)
		}
		h.assertMatchesRender()
	}
}

func longestIncreasing(a []int) int {
	best := make([]int, len(a))
	longest := 0
	for i := range a {
		best[i] = 1
		for j := 0; j < i; j++ {
			if a[j] < a[i] {
				best[i] = max(best[i], best[j]+1)
			}
		}
		longest = max(longest, best[i])
	}
	return longest
}

func TestTreeGenCoversKindsAndShapes(t *testing.T) {
	g := treeGen{r: rand.New(rand.NewPCG(1, 2))}
	kinds := map[Kind]int{}
	shapes := map[Shape]int{}
	var walk func(v *VNode)
	walk = func(v *VNode) {
		if v == nil {
			return
		}
		kinds[v.Kind]++
		if v.Kind == KindElement {
			shapes[v.Shape]++
		}
		switch {
		case v.Kind == KindContext:
			walk(v.Child)
		case v.Kind != KindElement:
			walk(v.Props.(genProps).tree())
		case v.Shape == ShapeSingle:
			walk(v.Child)
		case v.Shape == ShapeList:
			for _, c := range v.List {
				walk(c)
			}
		}
	}
	for i := 0; i < 50; i++ {
		walk(g.node(4))
	}

	for _, k := range []Kind{KindElement, KindText, KindStateful, KindStateless, KindConnect, KindContext} {
		if kinds[k] == 0 {
			t.Errorf("no nodes of kind %v generated", k)
		}
	}
	for _, s := range []Shape{ShapeNone, ShapeBasic, ShapeUnsafeHTML, ShapeSingle, ShapeList} {
		if shapes[s] == 0 {
			t.Errorf("no elements of shape %v generated", s)
		}
	}
}
