package dom

import "fmt"

// Apply replays an op recorded by another document. Applying a
// document's full op stream, in order, to a fresh document reproduces
// its tree with the same node IDs.
func (d *Document) Apply(op Op) error {
	switch op.Kind {
	case OpCreateElement:
		n := d.newNode(op.Node, ElementNode)
		n.Tag = op.Name
		d.record(op)
		return nil
	case OpCreateText:
		n := d.newNode(op.Node, TextNode)
		n.Value = op.Value
		d.record(op)
		return nil
	}

	n, err := d.lookup(op.Node)
	if err != nil {
		return fmt.Errorf("%s: %w", op.Kind, err)
	}

	switch op.Kind {
	case OpInsert, OpMove, OpRemove, OpReplace:
		p, err := d.lookup(op.Parent)
		if err != nil {
			return fmt.Errorf("%s parent: %w", op.Kind, err)
		}
		var ref *Node
		if op.Ref != 0 {
			if ref, err = d.lookup(op.Ref); err != nil {
				return fmt.Errorf("%s ref: %w", op.Kind, err)
			}
		}
		switch op.Kind {
		case OpInsert:
			d.insert(p, n, ref)
		case OpMove:
			d.move(p, n, ref)
		case OpRemove:
			d.removeChild(p, n)
		case OpReplace:
			d.replaceChild(p, n, ref)
		}
	case OpSetAttr:
		d.setAttr(n, op.Name, op.Value)
	case OpRemoveAttr:
		d.removeAttr(n, op.Name)
	case OpSetStyle:
		d.setStyle(n, op.Name, op.Value)
	case OpRemoveStyle:
		d.removeStyle(n, op.Name)
	case OpSetClass:
		d.setClass(n, op.Value)
	case OpSetText:
		d.setText(n, op.Value)
	case OpSetTextContent:
		d.setTextContent(n, op.Value)
	case OpSetInnerHTML:
		d.setInnerHTML(n, op.Value)
	default:
		return fmt.Errorf("dom: cannot apply %s", op.Kind)
	}
	return nil
}

// ApplyAll applies ops in order and stops at the first error.
func (d *Document) ApplyAll(ops []Op) error {
	for i, op := range ops {
		if err := d.Apply(op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}

func (d *Document) lookup(id uint32) (*Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w #%d", ErrUnknownNode, id)
	}
	return n, nil
}
