// Package vtree reconciles virtual node trees into a persistent target
// tree with a minimal set of mutations.
//
// This is the recommended import for applications that only drive a
// tree; the building blocks live in pkg/:
//
//	doc := dom.New()
//	root := vtree.NewRoot(vtree.NewEngine(doc), doc.Root(), nil)
//	root.Update(Ul(Li(Key("a"), "a"), Li(Key("b"), "b")))
//	root.Update(Ul(Li(Key("b"), "b"), Li(Key("a"), "a"))) // one move
//
// Element builders are in pkg/vdom, the in-memory target is pkg/dom,
// server rendering is pkg/render and the live transport is pkg/live.
package vtree

import "github.com/vango-dev/vtree/pkg/vdom"

// =============================================================================
// Core types (re-exported from pkg/vdom)
// =============================================================================

// VNode is an immutable description of one node of a tree.
type VNode = vdom.VNode

// Context is the ambient value map passed down the tree.
type Context = vdom.Context

// Engine reconciles trees into a target.
type Engine = vdom.Engine

// Target is the primitive set an engine mutates.
type Target = vdom.Target

// Config holds engine tuning knobs.
type Config = vdom.Config

// NewEngine creates an engine that mutates target.
var NewEngine = vdom.NewEngine

// Clone deep-copies a tree without its target instances so it can be
// rendered a second time.
var Clone = vdom.Clone
