package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// treeNode is the file form of a node. A node without a tag is a text
// node.
//
//	{"tag": "ul", "children": [
//	  {"tag": "li", "key": "a", "text": "a"},
//	  {"tag": "li", "key": "b", "text": "b"}
//	]}
type treeNode struct {
	Tag      string            `json:"tag,omitempty" yaml:"tag,omitempty"`
	Key      string            `json:"key,omitempty" yaml:"key,omitempty"`
	Class    string            `json:"class,omitempty" yaml:"class,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	HTML     string            `json:"html,omitempty" yaml:"html,omitempty"`
	Children []*treeNode       `json:"children,omitempty" yaml:"children,omitempty"`
}

// loadTree reads a JSON or YAML tree file.
func loadTree(path string) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeTreeFile).WithPath(path).Wrap(err)
	}
	return parseTree(path, data)
}

func parseTree(path string, data []byte) (*vdom.VNode, error) {
	var root treeNode
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err := yaml.Unmarshal(data, &root)
		if err != nil {
			return nil, errors.New(errors.CodeTreeFile).WithPath(path).Wrap(err)
		}
	default:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, errors.New(errors.CodeTreeFile).WithPath(path).Wrap(err)
		}
	}
	return buildTree(path, &root)
}

// buildTree converts a file node with the element builders. Builder
// panics, such as duplicate keys, become E030 errors.
func buildTree(path string, n *treeNode) (v *vdom.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				panic(r)
			}
			v, err = nil, errors.New(errors.CodeTreeFile).WithPath(path).Wrap(cause)
		}
	}()
	return build(n), nil
}

func build(n *treeNode) *vdom.VNode {
	if n.Tag == "" {
		return vdom.Text(n.Text)
	}

	args := make([]any, 0, len(n.Attrs)+4)
	if n.Key != "" {
		args = append(args, vdom.Key(n.Key))
	}
	if n.Class != "" {
		args = append(args, vdom.Class(n.Class))
	}
	for name, value := range n.Attrs {
		args = append(args, vdom.Attribute(name, value))
	}
	if len(n.Style) > 0 {
		args = append(args, vdom.Style(n.Style))
	}

	switch {
	case n.HTML != "":
		args = append(args, vdom.UnsafeHTML(n.HTML))
	case n.Text != "":
		args = append(args, n.Text)
	case len(n.Children) > 0:
		children := make([]*vdom.VNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = build(c)
		}
		args = append(args, children)
	}
	return vdom.El(n.Tag, args...)
}
