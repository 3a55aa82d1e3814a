// Package dom is an in-memory target tree for the vdom engine.
//
// A Document implements vdom.Target. Every mutation is applied to the
// document and recorded as an Op, so tests can assert the exact
// mutation stream and the live transport can ship it to a client. A
// second Document can replay the stream with Apply and end up with an
// identical tree.
package dom
