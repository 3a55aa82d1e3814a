package vdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vtree/internal/errors"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// UnsafeHTML is element content inserted as raw markup. Never build it
// from user input.
type UnsafeHTML string

// Style holds inline style properties.
type Style map[string]string

// createElement creates an element node from builder arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, Style, UnsafeHTML,
// *VNode, []*VNode, string or an integer.
//
// Every *VNode, string and integer argument, and every entry of a []*VNode
// argument, occupies one child slot whose position becomes the child's
// implicit key. A nil *VNode keeps its slot, so conditional children do
// not shift the positions of their siblings.
func createElement(tag string, args []any) *VNode {
	v := &VNode{Kind: KindElement, Tag: tag}

	var children []*VNode
	slot := 0
	list := false
	basic := false
	unsafe := false

	addChild := func(c *VNode) {
		c.Index = slot
		children = append(children, c)
	}

	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
			continue
		case Attr:
			v.applyAttr(a)
		case []Attr:
			for _, at := range a {
				v.applyAttr(at)
			}
		case EventHandler:
			if a.Handler == nil {
				continue
			}
			if v.Events == nil {
				v.Events = make(map[string]any)
			}
			v.Events[a.Event] = a.Handler
		case Style:
			if v.Style == nil {
				v.Style = make(map[string]string, len(a))
			}
			for k, s := range a {
				v.Style[k] = s
			}
		case UnsafeHTML:
			v.Text = string(a)
			unsafe = true
		case *VNode:
			if a != nil {
				addChild(a)
			}
			slot++
		case []*VNode:
			list = true
			for _, c := range a {
				if c != nil {
					addChild(c)
				}
				slot++
			}
		case string:
			basic = len(children) == 0
			addChild(Text(a))
			slot++
		case int:
			basic = len(children) == 0
			addChild(Text(strconv.Itoa(a)))
			slot++
		case int64:
			basic = len(children) == 0
			addChild(Text(strconv.FormatInt(a, 10)))
			slot++
		default:
			panic(errors.New(errors.CodeInvalidChild).WithPath(tag).
				WithDetailf("unsupported argument of type %T", arg))
		}
	}

	if unsafe {
		if len(children) > 0 {
			panic(errors.New(errors.CodeInvalidChild).WithPath(tag).
				WithDetail("an element with UnsafeHTML content cannot have children"))
		}
		v.Shape = ShapeUnsafeHTML
		return v
	}

	switch {
	case len(children) == 0:
		if list {
			v.Shape = ShapeList
		}
	case len(children) == 1 && !list:
		if basic {
			v.Shape = ShapeBasic
			v.Text = children[0].Text
		} else {
			v.Shape = ShapeSingle
			v.Child = children[0]
		}
	default:
		if err := checkList(children); err != nil {
			panic(err.WithPath(tag))
		}
		v.Shape = ShapeList
		v.List = children
	}
	return v
}

func (v *VNode) applyAttr(a Attr) {
	switch a.Key {
	case "":
		return
	case "key":
		v.Key = keyString(a.Value)
		v.ExplicitKey = true
	case "class":
		s, _ := a.Value.(string)
		if s == "" {
			return
		}
		if v.ClassName != "" {
			v.ClassName += " "
		}
		v.ClassName += s
	default:
		if v.Attrs == nil {
			v.Attrs = make(map[string]any)
		}
		v.Attrs[a.Key] = a.Value
	}
}

func keyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}

// El creates an element with an arbitrary tag name.
func El(tag string, args ...any) *VNode { return createElement(tag, args) }

// Document structure

func Html(args ...any) *VNode   { return createElement("html", args) }
func Head(args ...any) *VNode   { return createElement("head", args) }
func Body(args ...any) *VNode   { return createElement("body", args) }
func Title(args ...any) *VNode  { return createElement("title", args) }
func Meta(args ...any) *VNode   { return createElement("meta", args) }
func Script(args ...any) *VNode { return createElement("script", args) }

// Sections

func Div(args ...any) *VNode     { return createElement("div", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content

func P(args ...any) *VNode      { return createElement("p", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Pre(args ...any) *VNode    { return createElement("pre", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }
func Hr(args ...any) *VNode     { return createElement("hr", args) }
func Img(args ...any) *VNode    { return createElement("img", args) }

// Lists

func Ul(args ...any) *VNode { return createElement("ul", args) }
func Ol(args ...any) *VNode { return createElement("ol", args) }
func Li(args ...any) *VNode { return createElement("li", args) }

// Tables

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
