// Package vdom provides the virtual tree and the reconciliation engine.
//
// A VNode describes one tree position: an element, a text node, a
// component (stateful class, stateless function or connector) or a
// context node. Applications build a fresh tree on every update and hand
// the previous and next trees to an Engine, which mutates a persistent
// target tree through the Target interface so that it matches the next
// tree with as few operations as it can.
//
// # Building Trees
//
// Elements are created with variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// Children in a list are matched by key. Key("x") sets an explicit key;
// otherwise a child is keyed by the position of its argument slot.
//
// # Reconciliation
//
// Engine.Render mounts a tree, Engine.Sync reconciles an old tree into a
// new one, Engine.Remove unmounts, and Engine.DirtyCheck re-renders only
// components that invalidated themselves. Lists are reconciled with a
// keyed differ that trims common prefixes and suffixes, matches the rest
// by key and moves the minimum number of nodes using a longest increasing
// subsequence.
//
// The engine is synchronous and not safe for concurrent use. Callers
// serialize updates.
package vdom
