package vdom

import (
	"strconv"
	"strings"
)

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets an explicit key used to match the node among its siblings.
// Integers and fmt.Stringers are formatted; anything else uses %v.
func Key(key any) Attr { return attr("key", key) }

// Attribute sets an arbitrary attribute.
func Attribute(name string, value any) Attr { return attr(name, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf adds class only when cond is true.
func ClassIf(cond bool, class string) Attr {
	if !cond {
		return Attr{}
	}
	return attr("class", class)
}

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// Links and media

func Href(url string) Attr { return attr("href", url) }
func Src(url string) Attr  { return attr("src", url) }
func Alt(text string) Attr { return attr("alt", text) }

// TitleAttr sets the title attribute (named to avoid conflict with the
// Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Forms

func Type(t string) Attr            { return attr("type", t) }
func Name(name string) Attr         { return attr("name", name) }
func Value(value string) Attr       { return attr("value", value) }
func Placeholder(text string) Attr  { return attr("placeholder", text) }
func For(id string) Attr            { return attr("for", id) }
func TabIndex(i int) Attr           { return attr("tabindex", strconv.Itoa(i)) }
func Disabled(disabled bool) Attr   { return attr("disabled", disabled) }
func Checked(checked bool) Attr     { return attr("checked", checked) }
func Selected(selected bool) Attr   { return attr("selected", selected) }
func Hidden(hidden bool) Attr       { return attr("hidden", hidden) }
func Readonly(readonly bool) Attr   { return attr("readonly", readonly) }
func Required(required bool) Attr   { return attr("required", required) }
func Autofocus(autofocus bool) Attr { return attr("autofocus", autofocus) }
