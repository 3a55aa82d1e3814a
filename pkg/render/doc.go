// Package render serializes virtual trees to HTML.
//
// Renderer writes a tree straight to a writer, rendering components
// without an engine. The blueprint mode caches the markup of a previous
// render: CreateBlueprint builds (or diffs) a Blueprint from a tree, and
// RenderBlueprint renders a new tree by reusing the cached markup of
// every subtree that the compatibility rules of the engine consider
// unchanged. Connectors are re-run so context-dependent output stays
// fresh.
package render
