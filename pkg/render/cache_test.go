package render

import (
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestBlueprintCache(t *testing.T) {
	c := NewBlueprintCache()

	first, err := c.Render("/", listPage("T", "a"), nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Render("/", listPage("T", "a", "b"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("cached render ignored the new tree")
	}
	if want := mustRender(t, listPage("T", "a", "b")); second != want {
		t.Errorf("Render = %q, want %q", second, want)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", hits, misses)
	}

	bp, err := c.Refresh("/", listPage("T", "b"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := c.Get("/"); !ok || got != bp {
		t.Error("Refresh did not store the blueprint")
	}

	c.Invalidate("/")
	if _, ok := c.Get("/"); ok {
		t.Error("Invalidate kept the entry")
	}
}

func TestBlueprintCacheConcurrent(t *testing.T) {
	c := NewBlueprintCache()
	want := mustRender(t, listPage("T", "a", "b"))

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			got, err := c.Render("/", listPage("T", "a", "b"), vdom.Context{})
			if err != nil {
				return err
			}
			if got != want {
				t.Errorf("Render = %q, want %q", got, want)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if hits, misses := c.Stats(); hits+misses != 16 {
		t.Errorf("hits+misses = %d, want 16", hits+misses)
	}
}
