package vtree

import (
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Root drives an engine for one container: it holds the tree currently
// rendered there and the context it was rendered with, and turns each
// new tree into the matching engine call.
//
// A Root is not safe for concurrent use.
type Root struct {
	engine       *vdom.Engine
	container    any
	tree         *vdom.VNode
	ctx          vdom.Context
	contextDirty bool
}

// NewRoot creates a driver for container. Nothing is rendered until the
// first Update.
func NewRoot(engine *vdom.Engine, container any, ctx vdom.Context) *Root {
	return &Root{engine: engine, container: container, ctx: ctx}
}

// Tree returns the tree currently rendered, or nil.
func (r *Root) Tree() *vdom.VNode { return r.tree }

// Context returns the root context.
func (r *Root) Context() vdom.Context { return r.ctx }

// SetContext replaces the root context. The next Update or Refresh
// re-merges every context node below the root.
func (r *Root) SetContext(ctx vdom.Context) {
	if vdom.ShallowEqual(r.ctx, ctx) {
		return
	}
	r.ctx = ctx
	r.contextDirty = true
}

// Update makes next the rendered tree. The first non-nil tree is
// rendered into the container, later trees are synced against the
// previous one, and a nil tree removes whatever is rendered.
func (r *Root) Update(next *vdom.VNode) error {
	switch {
	case r.tree == nil && next == nil:
		return nil
	case r.tree == nil:
		if _, err := r.engine.Render(r.container, nil, next, r.ctx); err != nil {
			return err
		}
	case next == nil:
		if err := r.engine.Remove(r.container, r.tree); err != nil {
			return err
		}
	default:
		if err := r.engine.Sync(r.container, r.tree, next, r.ctx, r.flags()); err != nil {
			return err
		}
	}
	r.tree = next
	r.contextDirty = false
	return nil
}

// Refresh re-renders invalidated components without a new tree and
// reports whether anything changed.
func (r *Root) Refresh() (bool, error) {
	if r.tree == nil {
		return false, nil
	}
	changed, err := r.engine.DirtyCheck(r.container, r.tree, r.ctx, r.flags())
	if err != nil {
		return false, err
	}
	r.contextDirty = false
	return changed, nil
}

// ForceUpdate re-renders every component of the current tree.
func (r *Root) ForceUpdate() error {
	if r.tree == nil {
		return nil
	}
	err := r.engine.Sync(r.container, r.tree, r.tree, r.ctx, r.flags()|vdom.SyncForceUpdate)
	if err == nil {
		r.contextDirty = false
	}
	return err
}

// Unmount removes the rendered tree.
func (r *Root) Unmount() error {
	return r.Update(nil)
}

func (r *Root) flags() vdom.SyncFlags {
	flags := vdom.SyncAttached
	if r.contextDirty {
		flags |= vdom.SyncDirtyContext
	}
	return flags
}
