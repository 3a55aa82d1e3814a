package dom

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned by Apply when an op references a node the
// document does not have.
var ErrUnknownNode = errors.New("dom: unknown node")

// RootID is the ID of every document's root container.
const RootID uint32 = 1

// Document is a mutable tree of Nodes that records its mutations.
// It is not safe for concurrent use.
type Document struct {
	root   *Node
	nodes  map[uint32]*Node
	nextID uint32

	ops    []Op
	counts map[OpKind]int
	onOp   func(Op)
}

// New creates a document holding only the root container.
func New() *Document {
	root := &Node{ID: RootID, Type: ElementNode, Tag: "root"}
	return &Document{
		root:   root,
		nodes:  map[uint32]*Node{RootID: root},
		nextID: RootID + 1,
		counts: make(map[OpKind]int),
	}
}

// Root returns the root container.
func (d *Document) Root() *Node { return d.root }

// Node returns the live node with the given ID, or nil.
func (d *Document) Node(id uint32) *Node { return d.nodes[id] }

// Len returns the number of live nodes, including the root.
func (d *Document) Len() int { return len(d.nodes) }

// OnOp registers fn to be called after every recorded op.
func (d *Document) OnOp(fn func(Op)) { d.onOp = fn }

// Ops returns a copy of the ops recorded since the last reset.
func (d *Document) Ops() []Op {
	out := make([]Op, len(d.ops))
	copy(out, d.ops)
	return out
}

// Drain returns the recorded ops and starts a new log. Counts are kept.
func (d *Document) Drain() []Op {
	out := d.ops
	d.ops = nil
	return out
}

// ResetOps clears the op log and the counters.
func (d *Document) ResetOps() {
	d.ops = nil
	clear(d.counts)
}

// Count returns how many ops of kind k were recorded since the last reset.
func (d *Document) Count(k OpKind) int { return d.counts[k] }

// StructuralCount returns the number of insert, move, remove and replace
// ops recorded since the last reset.
func (d *Document) StructuralCount() int {
	n := 0
	for k, c := range d.counts {
		if k.IsStructural() {
			n += c
		}
	}
	return n
}

func (d *Document) record(op Op) {
	d.ops = append(d.ops, op)
	d.counts[op.Kind]++
	if d.onOp != nil {
		d.onOp(op)
	}
}

func (d *Document) node(h any) *Node {
	n, ok := h.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("dom: invalid node handle %T", h))
	}
	return n
}

func (d *Document) newNode(id uint32, typ NodeType) *Node {
	n := &Node{ID: id, Type: typ}
	d.nodes[id] = n
	if id >= d.nextID {
		d.nextID = id + 1
	}
	return n
}

// forget drops n and its descendants from the ID index.
func (d *Document) forget(n *Node) {
	n.Walk(func(c *Node) {
		delete(d.nodes, c.ID)
	})
}

func idOf(n *Node) uint32 {
	if n == nil {
		return 0
	}
	return n.ID
}

// CreateElement implements vdom.Target.
func (d *Document) CreateElement(tag string) any {
	n := d.newNode(d.nextID, ElementNode)
	n.Tag = tag
	d.record(Op{Kind: OpCreateElement, Node: n.ID, Name: tag})
	return n
}

// CreateText implements vdom.Target.
func (d *Document) CreateText(text string) any {
	n := d.newNode(d.nextID, TextNode)
	n.Value = text
	d.record(Op{Kind: OpCreateText, Node: n.ID, Value: text})
	return n
}

// InsertBefore implements vdom.Target.
func (d *Document) InsertBefore(parent, child, ref any) {
	p, c := d.node(parent), d.node(child)
	var r *Node
	if ref != nil {
		r = d.node(ref)
	}
	d.insert(p, c, r)
}

func (d *Document) insert(p, c, r *Node) {
	p.insertChild(c, r)
	d.record(Op{Kind: OpInsert, Node: c.ID, Parent: p.ID, Ref: idOf(r)})
}

// MoveBefore implements vdom.Target.
func (d *Document) MoveBefore(parent, child, ref any) {
	p, c := d.node(parent), d.node(child)
	var r *Node
	if ref != nil {
		r = d.node(ref)
	}
	d.move(p, c, r)
}

func (d *Document) move(p, c, r *Node) {
	p.detachChild(c)
	p.insertChild(c, r)
	d.record(Op{Kind: OpMove, Node: c.ID, Parent: p.ID, Ref: idOf(r)})
}

// RemoveChild implements vdom.Target.
func (d *Document) RemoveChild(parent, child any) {
	d.removeChild(d.node(parent), d.node(child))
}

func (d *Document) removeChild(p, c *Node) {
	p.detachChild(c)
	d.forget(c)
	d.record(Op{Kind: OpRemove, Node: c.ID, Parent: p.ID})
}

// ReplaceChild implements vdom.Target.
func (d *Document) ReplaceChild(parent, newChild, oldChild any) {
	d.replaceChild(d.node(parent), d.node(newChild), d.node(oldChild))
}

func (d *Document) replaceChild(p, n, old *Node) {
	if i := p.indexOf(old); i >= 0 {
		p.Children[i] = n
		n.Parent = p
	} else {
		p.insertChild(n, nil)
	}
	old.Parent = nil
	d.forget(old)
	d.record(Op{Kind: OpReplace, Node: n.ID, Parent: p.ID, Ref: old.ID})
}

// SetAttribute implements vdom.Target. Values are stored in their
// rendered string form; nil and false remove the attribute.
func (d *Document) SetAttribute(node any, name string, value any) {
	s, ok := attrString(value)
	if !ok {
		d.removeAttr(d.node(node), name)
		return
	}
	d.setAttr(d.node(node), name, s)
}

func (d *Document) setAttr(n *Node, name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	d.record(Op{Kind: OpSetAttr, Node: n.ID, Name: name, Value: value})
}

// RemoveAttribute implements vdom.Target.
func (d *Document) RemoveAttribute(node any, name string) {
	d.removeAttr(d.node(node), name)
}

func (d *Document) removeAttr(n *Node, name string) {
	delete(n.Attrs, name)
	d.record(Op{Kind: OpRemoveAttr, Node: n.ID, Name: name})
}

// SetStyle implements vdom.Target.
func (d *Document) SetStyle(node any, name, value string) {
	d.setStyle(d.node(node), name, value)
}

func (d *Document) setStyle(n *Node, name, value string) {
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[name] = value
	d.record(Op{Kind: OpSetStyle, Node: n.ID, Name: name, Value: value})
}

// RemoveStyle implements vdom.Target.
func (d *Document) RemoveStyle(node any, name string) {
	d.removeStyle(d.node(node), name)
}

func (d *Document) removeStyle(n *Node, name string) {
	delete(n.Style, name)
	d.record(Op{Kind: OpRemoveStyle, Node: n.ID, Name: name})
}

// SetClassName implements vdom.Target.
func (d *Document) SetClassName(node any, className string) {
	d.setClass(d.node(node), className)
}

func (d *Document) setClass(n *Node, className string) {
	n.ClassName = className
	d.record(Op{Kind: OpSetClass, Node: n.ID, Value: className})
}

// SetNodeValue implements vdom.Target.
func (d *Document) SetNodeValue(node any, text string) {
	d.setText(d.node(node), text)
}

func (d *Document) setText(n *Node, text string) {
	n.Value = text
	d.record(Op{Kind: OpSetText, Node: n.ID, Value: text})
}

// SetTextContent implements vdom.Target.
func (d *Document) SetTextContent(node any, text string) {
	d.setTextContent(d.node(node), text)
}

func (d *Document) setTextContent(n *Node, text string) {
	d.dropChildren(n)
	n.Content = text
	d.record(Op{Kind: OpSetTextContent, Node: n.ID, Value: text})
}

// SetInnerHTML implements vdom.Target.
func (d *Document) SetInnerHTML(node any, html string) {
	d.setInnerHTML(d.node(node), html)
}

func (d *Document) setInnerHTML(n *Node, html string) {
	d.dropChildren(n)
	n.HTML = html
	d.record(Op{Kind: OpSetInnerHTML, Node: n.ID, Value: html})
}

func (d *Document) dropChildren(n *Node) {
	for _, c := range n.Children {
		c.Parent = nil
		d.forget(c)
	}
	n.Children = nil
	n.Content = ""
	n.HTML = ""
}
