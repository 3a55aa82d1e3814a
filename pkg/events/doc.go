// Package events keeps the element event handlers of a live tree and
// dispatches client events to them.
//
// A Registry is the vdom.EventBinder of a live session. The engine binds
// an element's handlers when the element joins the live tree and unbinds
// them when it leaves, so the registry only ever holds handlers that a
// client can reach.
//
// Handlers can be any of:
//
//	func()
//	func(*events.Event)
//	func(string)          // receives Event.Value
//	func(events.FormData) // receives Event.Fields
package events
