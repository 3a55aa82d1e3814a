package render

import (
	"sync"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// BlueprintCache keeps one blueprint per page key and renders through it.
// It is safe for concurrent use.
type BlueprintCache struct {
	mu      sync.RWMutex
	entries map[string]*Blueprint
	hits    uint64
	misses  uint64
}

// NewBlueprintCache creates an empty cache.
func NewBlueprintCache() *BlueprintCache {
	return &BlueprintCache{entries: make(map[string]*Blueprint)}
}

// Render renders node for key. The first render of a key builds and
// stores its blueprint; later renders reuse its markup.
func (c *BlueprintCache) Render(key string, node *vdom.VNode, ctx vdom.Context) (string, error) {
	c.mu.RLock()
	bp := c.entries[key]
	c.mu.RUnlock()

	if bp != nil {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return RenderBlueprint(bp, node, ctx)
	}

	bp, err := CreateBlueprint(node, ctx, nil)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.misses++
	c.entries[key] = bp
	c.mu.Unlock()
	return bp.Markup, nil
}

// Refresh diffs the stored blueprint for key against node and stores
// the result.
func (c *BlueprintCache) Refresh(key string, node *vdom.VNode, ctx vdom.Context) (*Blueprint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bp, err := CreateBlueprint(node, ctx, c.entries[key])
	if err != nil {
		return nil, err
	}
	c.entries[key] = bp
	return bp, nil
}

// Get returns the blueprint stored for key.
func (c *BlueprintCache) Get(key string) (*Blueprint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bp, ok := c.entries[key]
	return bp, ok
}

// Invalidate drops the blueprint for key.
func (c *BlueprintCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Stats returns cache hits and misses.
func (c *BlueprintCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
