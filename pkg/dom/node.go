package dom

// NodeType distinguishes elements from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is one node of a Document.
type Node struct {
	ID   uint32
	Type NodeType
	Tag  string

	// Value is the content of a text node.
	Value string

	ClassName string
	Attrs     map[string]string
	Style     map[string]string

	// Content is the text an element holds instead of children after
	// SetTextContent. HTML is raw markup set by SetInnerHTML.
	Content string
	HTML    string

	Parent   *Node
	Children []*Node
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detachChild(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
	}
	child.Parent = nil
}

// insertChild inserts child before ref, or appends when ref is nil or not
// a child of n.
func (n *Node) insertChild(child, ref *Node) {
	child.Parent = n
	if ref != nil {
		if i := n.indexOf(ref); i >= 0 {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = child
			return
		}
	}
	n.Children = append(n.Children, child)
}

// Walk calls fn for n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// NodeID returns n.ID. Event binders key handlers by it.
func (n *Node) NodeID() uint32 { return n.ID }
