package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "engine error",
			code:    CodeNodeReused,
			wantMsg: "VNode already rendered",
			wantCat: CategoryEngine,
		},
		{
			name:    "protocol error",
			code:    CodeDecode,
			wantMsg: "Malformed patch stream",
			wantCat: CategoryProtocol,
		},
		{
			name:    "config error",
			code:    CodeConfigInvalid,
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New(CodeDuplicateKey)
	if got, want := err.Error(), "E002: Duplicate sibling key"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New(CodeConfigParse).Wrap(fmt.Errorf("line 3: bad indent"))
	if got, want := wrapped.Error(), "E022: Config parse error: line 3: bad indent"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Newf(CategoryCLI, "file %q missing", "a.json")
	if got, want := plain.Error(), `file "a.json" missing`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsAndAs(t *testing.T) {
	base := stderrors.New("boom")
	err := fmt.Errorf("sync: %w", New(CodeNodeReused).Wrap(base))

	if !stderrors.Is(err, New(CodeNodeReused)) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New(CodeDuplicateKey)) {
		t.Error("errors.Is should not match a different code")
	}
	if !stderrors.Is(err, base) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if got := Code(err); got != CodeNodeReused {
		t.Errorf("Code() = %q, want %q", got, CodeNodeReused)
	}
	if got := Code(base); got != "" {
		t.Errorf("Code() of plain error = %q, want empty", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeDecode) != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New(CodeUnknownOp)
	if got := FromError(fmt.Errorf("ctx: %w", orig), CodeDecode); got != orig {
		t.Error("FromError should return the existing *Error")
	}

	got := FromError(stderrors.New("eof"), CodeDecode)
	if got.Code != CodeDecode || got.Wrapped == nil {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeDuplicateKey).
		WithPath("div/ul").
		WithSuggestion("use distinct keys").
		Wrap(stderrors.New("key \"a\""))

	out := err.Format()
	for _, want := range []string{
		"ERROR E002: Duplicate sibling key",
		"at div/ul",
		"Two children of the same parent",
		"Caused by: key \"a\"",
		"Hint: use distinct keys",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got, want := err.FormatCompact(), `div/ul: E002: Duplicate sibling key: key "a"`; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeConfigInvalid).WithDetail("engine.keyIndexThreshold must be positive")
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal: %v", jerr)
	}
	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal: %v", jerr)
	}
	if decoded["code"] != CodeConfigInvalid {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != string(CategoryConfig) {
		t.Errorf("category = %v", decoded["category"])
	}
	if _, ok := decoded["path"]; ok {
		t.Error("empty path should be omitted")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New(CodeNilRender))
	if !strings.Contains(buf.String(), "E004") {
		t.Errorf("Fprint output = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestRegistryCodesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, code := range GetAllCodes() {
		if seen[code] {
			t.Errorf("duplicate code %s", code)
		}
		seen[code] = true
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}
}
