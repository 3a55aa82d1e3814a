package events

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

var _ vdom.EventBinder = (*Registry)(nil)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(quiet())
	n := &dom.Node{ID: 7}

	var clicks int
	var typed string
	var form FormData
	var raw *Event
	r.Bind(n, map[string]any{
		"click":  func() { clicks++ },
		"input":  func(s string) { typed = s },
		"submit": func(f FormData) { form = f },
		"focus":  func(e *Event) { raw = e },
		"bad":    42,
	})

	events := []*Event{
		{Type: "click", Target: 7},
		{Type: "input", Target: 7, Value: "hello"},
		{Type: "submit", Target: 7, Fields: map[string]string{"name": "ann"}},
		{Type: "focus", Target: 7},
	}
	for _, e := range events {
		if err := r.Dispatch(e); err != nil {
			t.Fatalf("Dispatch(%s): %v", e.Type, err)
		}
	}
	if clicks != 1 || typed != "hello" || form.Get("name") != "ann" || !form.Has("name") || raw != events[3] {
		t.Errorf("clicks=%d typed=%q form=%v raw=%v", clicks, typed, form, raw)
	}
	if r.Has(7, "bad") {
		t.Error("unsupported handler was bound")
	}
}

func TestRegistryBindLifecycle(t *testing.T) {
	r := NewRegistry(quiet())
	n := &dom.Node{ID: 3}

	r.Bind(n, map[string]any{"click": func() {}})
	if !r.Has(3, "click") || r.Len() != 1 {
		t.Fatal("Bind did not register")
	}

	r.Rebind(n, nil, map[string]any{"input": func(string) {}})
	if r.Has(3, "click") || !r.Has(3, "input") {
		t.Error("Rebind did not replace the handler set")
	}

	r.Unbind(n, nil)
	if r.Len() != 0 {
		t.Error("Unbind kept handlers")
	}
	err := r.Dispatch(&Event{Type: "input", Target: 3})
	if !errors.Is(err, ErrNoHandler) {
		t.Errorf("Dispatch after Unbind = %v, want ErrNoHandler", err)
	}
}

func TestRegistryIgnoresForeignHandles(t *testing.T) {
	r := NewRegistry(quiet())
	r.Bind("not a node", map[string]any{"click": func() {}})
	if r.Len() != 0 {
		t.Error("bound a handle without an ID")
	}
}

func TestRegistryRecoversPanics(t *testing.T) {
	r := NewRegistry(quiet())
	r.Bind(&dom.Node{ID: 1}, map[string]any{"click": func() { panic("boom") }})

	err := r.Dispatch(&Event{Type: "click", Target: 1})
	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("Dispatch = %v, want *HandlerError", err)
	}
	if herr.Panic != "boom" || herr.Target != 1 || len(herr.Stack) == 0 {
		t.Errorf("HandlerError = %+v", herr)
	}
}

func TestRegistryConcurrentDispatch(t *testing.T) {
	r := NewRegistry(quiet())
	var mu sync.Mutex
	count := 0
	r.Bind(&dom.Node{ID: 1}, map[string]any{"click": func() {
		mu.Lock()
		count++
		mu.Unlock()
	}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Dispatch(&Event{Type: "click", Target: 1})
		}()
	}
	wg.Wait()
	if count != 8 {
		t.Errorf("count = %d, want 8", count)
	}
}

func TestEngineBindsThroughRegistry(t *testing.T) {
	doc := dom.New()
	r := NewRegistry(quiet())
	e := vdom.NewEngine(doc, vdom.WithEvents(r))

	clicked := false
	tree := vdom.Div(vdom.Button(vdom.OnClick(func() { clicked = true }), "go"))
	if _, err := e.Render(doc.Root(), nil, tree, nil); err != nil {
		t.Fatal(err)
	}
	btn := tree.Child.Instance().(*dom.Node)
	if err := r.Dispatch(&Event{Type: "click", Target: btn.ID}); err != nil {
		t.Fatal(err)
	}
	if !clicked {
		t.Error("handler did not run")
	}

	if err := e.Remove(doc.Root(), tree); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Error("removed subtree left handlers behind")
	}
}
