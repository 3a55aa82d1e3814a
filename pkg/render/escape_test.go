package render

import (
	"strings"
	"testing"
	"time"
)

func TestEscapeText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"<script>", "&lt;script&gt;"},
		{`a & "b" 'c'`, "a &amp; &quot;b&quot; &#39;c&#39;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeText(tt.in); got != tt.want {
			t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeAttr(t *testing.T) {
	if got, want := EscapeAttr("a\n\"b\"\t"), "a&#10;&quot;b&quot;&#9;"; got != want {
		t.Errorf("EscapeAttr = %q, want %q", got, want)
	}
}

func TestAttrString(t *testing.T) {
	tests := []struct {
		in      any
		want    string
		present bool
	}{
		{nil, "", false},
		{false, "", false},
		{true, "", true},
		{"x", "x", true},
		{42, "42", true},
		{int64(-3), "-3", true},
		{1.5, "1.5", true},
		{time.Second, "1s", true},
		{[]int{1}, "[1]", true},
	}
	for _, tt := range tests {
		got, ok := AttrString(tt.in)
		if got != tt.want || ok != tt.present {
			t.Errorf("AttrString(%v) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.present)
		}
	}
}

func TestWriteAttrAndStyle(t *testing.T) {
	var b strings.Builder
	WriteAttr(&b, "hidden", "")
	WriteAttr(&b, "title", "<x>")
	if got, want := b.String(), ` hidden title="&lt;x&gt;"`; got != want {
		t.Errorf("WriteAttr = %q, want %q", got, want)
	}

	style := map[string]string{"b": "2", "a": "1"}
	if got, want := StyleString([]string{"a", "b"}, style), "a:1;b:2"; got != want {
		t.Errorf("StyleString = %q, want %q", got, want)
	}
}
