package vdom_test

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	. "github.com/vango-dev/vtree/pkg/vdom"
)

var benchSizes = []int{8, 32, 256}

// benchConfigs pit the default strategy choice against each strategy
// forced on its own.
var benchConfigs = []struct {
	name   string
	config Config
}{
	{"default", DefaultConfig()},
	{"linear", Config{KeyIndexThreshold: 1 << 30, KeyIndexMinNew: 1 << 30}},
	{"indexed", Config{KeyIndexThreshold: 1, KeyIndexMinNew: 1}},
}

func keyRange(from, to int) []int {
	keys := make([]int, 0, to-from)
	for k := from; k < to; k++ {
		keys = append(keys, k)
	}
	return keys
}

func keyedInts(keys []int) *VNode {
	return Ul(Range(keys, func(k, _ int) *VNode {
		return Li(Key(k), strconv.Itoa(k))
	}))
}

// listScenarios return the old and new key orders for a list of n.
var listScenarios = []struct {
	name string
	keys func(n int) (old, new []int)
}{
	{"append", func(n int) ([]int, []int) { return keyRange(0, n), keyRange(0, n+1) }},
	{"reverse", func(n int) ([]int, []int) {
		old := keyRange(0, n)
		rev := make([]int, n)
		for i, k := range old {
			rev[n-1-i] = k
		}
		return old, rev
	}},
	{"shuffle", func(n int) ([]int, []int) {
		old := keyRange(0, n)
		shuffled := append([]int(nil), old...)
		r := rand.New(rand.NewPCG(uint64(n), 7))
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		return old, shuffled
	}},
	{"disjoint", func(n int) ([]int, []int) { return keyRange(0, n), keyRange(n, 2*n) }},
}

func BenchmarkSyncList(b *testing.B) {
	for _, sc := range listScenarios {
		for _, n := range benchSizes {
			oldKeys, newKeys := sc.keys(n)
			for _, cfg := range benchConfigs {
				b.Run(fmt.Sprintf("%s/%d/%s", sc.name, n, cfg.name), func(b *testing.B) {
					b.ReportAllocs()
					for i := 0; i < b.N; i++ {
						b.StopTimer()
						doc := dom.New()
						engine := NewEngine(doc, WithConfig(cfg.config))
						prev, next := keyedInts(oldKeys), keyedInts(newKeys)
						if _, err := engine.Render(doc.Root(), nil, prev, nil); err != nil {
							b.Fatal(err)
						}
						b.StartTimer()

						if err := engine.Sync(doc.Root(), prev, next, nil, SyncAttached); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		}
	}
}

func BenchmarkSyncSameTree(b *testing.B) {
	doc := dom.New()
	engine := NewEngine(doc)
	tree := keyedInts(keyRange(0, 256))
	if _, err := engine.Render(doc.Root(), nil, tree, nil); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Sync(doc.Root(), tree, tree, nil, SyncAttached); err != nil {
			b.Fatal(err)
		}
	}
}

func card(i int) *VNode {
	return Div(Class("card"),
		Header(H2("Card "+strconv.Itoa(i))),
		Main(P("Card content goes here"), P(Strong("more"), Text(" content"))),
		Footer(Button(OnClick(func() {}), "Save")),
	)
}

func BenchmarkCreate(b *testing.B) {
	b.Run("card", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			doc := dom.New()
			if _, err := NewEngine(doc).Render(doc.Root(), nil, card(i), nil); err != nil {
				b.Fatal(err)
			}
		}
	})

	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("list/%d", n), func(b *testing.B) {
			keys := keyRange(0, n)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				doc := dom.New()
				if _, err := NewEngine(doc).Render(doc.Root(), nil, keyedInts(keys), nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
