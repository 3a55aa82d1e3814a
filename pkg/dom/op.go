package dom

import "fmt"

// OpKind is the type of a recorded mutation.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpInsert
	OpMove
	OpRemove
	OpReplace
	OpSetAttr
	OpRemoveAttr
	OpSetStyle
	OpRemoveStyle
	OpSetClass
	OpSetText
	OpSetTextContent
	OpSetInnerHTML
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpSetClass:
		return "SetClass"
	case OpSetText:
		return "SetText"
	case OpSetTextContent:
		return "SetTextContent"
	case OpSetInnerHTML:
		return "SetInnerHTML"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// IsStructural reports whether the op changes parent/child links.
func (k OpKind) IsStructural() bool {
	switch k {
	case OpInsert, OpMove, OpRemove, OpReplace:
		return true
	}
	return false
}

// Op is one recorded mutation. Node IDs are zero when unused.
type Op struct {
	Kind   OpKind
	Node   uint32 // Node created, moved, removed or modified
	Parent uint32 // Parent for structural ops
	Ref    uint32 // Insert/move anchor, or the replaced node
	Name   string // Tag, attribute or style property name
	Value  string
}

// String formats the op for test failures and CLI output.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", o.Kind, o.Node, o.Name)
	case OpCreateText:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Value)
	case OpInsert, OpMove:
		if o.Ref == 0 {
			return fmt.Sprintf("%s #%d into #%d", o.Kind, o.Node, o.Parent)
		}
		return fmt.Sprintf("%s #%d into #%d before #%d", o.Kind, o.Node, o.Parent, o.Ref)
	case OpRemove:
		return fmt.Sprintf("%s #%d from #%d", o.Kind, o.Node, o.Parent)
	case OpReplace:
		return fmt.Sprintf("%s #%d with #%d in #%d", o.Kind, o.Ref, o.Node, o.Parent)
	case OpSetAttr, OpSetStyle:
		return fmt.Sprintf("%s #%d %s=%q", o.Kind, o.Node, o.Name, o.Value)
	case OpRemoveAttr, OpRemoveStyle:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Name)
	default:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Value)
	}
}
