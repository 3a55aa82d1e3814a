package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vtree/pkg/live"
	. "github.com/vango-dev/vtree/pkg/vdom"
)

var demos = map[string]live.App{
	"counter": counterDemo,
	"todo":    todoDemo,
}

func counterDemo(s *live.Session) live.View {
	count := 0
	return func() *VNode {
		return Main(
			H1("Counter"),
			P(
				Button(OnClick(func() { count-- }), "-"),
				Strong(strconv.Itoa(count)),
				Button(OnClick(func() { count++ }), "+"),
			),
			uptimeClass.Node(s),
		)
	}
}

type todoItem struct {
	id   int
	text string
}

func todoDemo(s *live.Session) live.View {
	var (
		items  []todoItem
		draft  string
		nextID int
	)
	add := func() {
		text := strings.TrimSpace(draft)
		if text == "" {
			return
		}
		nextID++
		items = append(items, todoItem{id: nextID, text: text})
		draft = ""
	}
	remove := func(id int) {
		for i, it := range items {
			if it.id == id {
				items = append(items[:i], items[i+1:]...)
				return
			}
		}
	}
	reverse := func() {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	return func() *VNode {
		return Main(
			H1("Todo"),
			P(
				Input(Type("text"), Value(draft), Placeholder("What needs doing?"),
					OnInput(func(v string) { draft = v })),
				Button(OnClick(add), "Add"),
				Button(OnClick(reverse), Disabled(len(items) < 2), "Reverse"),
			),
			Ul(Range(items, func(it todoItem, _ int) *VNode {
				return Li(Key(it.id),
					Span(it.text),
					Button(OnClick(func() { remove(it.id) }), "x"),
				)
			})),
			P(Class("summary"), strconv.Itoa(len(items))+" item(s)"),
			uptimeClass.Node(s),
		)
	}
}

// uptime shows how long its session has been connected. It ticks from
// a goroutine started on attach and stopped on detach.
type uptime struct {
	Base
	seconds int
	stop    chan struct{}
}

var uptimeClass = &Stateful{
	Name: "Uptime",
	New:  func(any) Component { return &uptime{} },
}

func (u *uptime) Render() *VNode {
	return P(Class("uptime"), "connected for "+strconv.Itoa(u.seconds)+"s")
}

func (u *uptime) Attached() {
	sess, ok := u.Props().(*live.Session)
	if !ok || sess == nil {
		return
	}
	u.stop = make(chan struct{})
	go func(stop <-chan struct{}) {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				err := sess.Do(func() {
					u.seconds++
					u.Invalidate()
				})
				if err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}(u.stop)
}

func (u *uptime) Detached() {
	if u.stop != nil {
		close(u.stop)
		u.stop = nil
	}
}
