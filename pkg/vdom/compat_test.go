package vdom

import "testing"

func TestCanSync(t *testing.T) {
	f := &Func{Render: func(any) *VNode { return Text("") }}
	g := &Func{Render: func(any) *VNode { return Text("") }}

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", Div(), Div(), true},
		{"different tag", Div(), Span(), false},
		{"text", Text("a"), Text("b"), true},
		{"text and element", Text("a"), Div(), false},
		{"same key", Div(Key("k")), Div(Key("k")), true},
		{"different key", Div(Key("k")), Div(Key("j")), false},
		{"explicit and implicit", Div(Key("0")), Div(), false},
		{"same func", f.Node(nil), f.Node(1), true},
		{"different func", f.Node(nil), g.Node(nil), false},
		{"context", WithContext(nil, Div()), WithContext(Context{"a": 1}, Span()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSync(tt.a, tt.b); got != tt.want {
				t.Errorf("CanSync() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeysEqual(t *testing.T) {
	implicit := func(i int) *VNode { return &VNode{Kind: KindText, Index: i} }
	explicit := func(k string) *VNode { return &VNode{Kind: KindText, Key: k, ExplicitKey: true} }

	if !KeysEqual(implicit(2), implicit(2)) {
		t.Error("equal implicit keys did not match")
	}
	if KeysEqual(implicit(1), implicit(2)) {
		t.Error("different implicit keys matched")
	}
	if !KeysEqual(explicit("a"), explicit("a")) {
		t.Error("equal explicit keys did not match")
	}
	if KeysEqual(explicit("0"), implicit(0)) {
		t.Error("explicit key matched implicit key")
	}
}

func TestShallowEqual(t *testing.T) {
	type props struct {
		Name  string
		Items []int
		Meta  map[string]string
	}
	items := []int{1, 2}
	meta := map[string]string{"a": "b"}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil and value", nil, 1, false},
		{"ints", 1, 1, true},
		{"different types", 1, int64(1), false},
		{"struct same refs", props{"x", items, meta}, props{"x", items, meta}, true},
		{"struct new slice", props{"x", items, meta}, props{"x", []int{1, 2}, meta}, false},
		{"struct field", props{Name: "x"}, props{Name: "y"}, false},
		{"map entries", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
		{"map entry differs", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"map length", map[string]any{"a": 1}, map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShallowEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ShallowEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentical(t *testing.T) {
	s := []int{1}
	m := map[string]int{}
	if !Identical(s, s) || Identical(s, []int{1}) {
		t.Error("slices compare by backing array")
	}
	if !Identical(m, m) || Identical(m, map[string]int{}) {
		t.Error("maps compare by identity")
	}
	if !Identical("a", "a") || Identical("a", "b") {
		t.Error("strings compare by value")
	}
	if Identical(map[string]any{"a": 1}, map[string]any{"a": 1}) {
		t.Error("distinct maps with equal entries are not identical")
	}
}
