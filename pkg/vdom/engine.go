package vdom

import (
	"log/slog"

	"github.com/vango-dev/vtree/internal/errors"
)

// SyncFlags modify a sync or dirty-check pass.
type SyncFlags uint8

const (
	// SyncAttached marks the subtree as part of a live tree. Inserted and
	// removed nodes receive attach and detach notifications.
	SyncAttached SyncFlags = 1 << iota
	// SyncDirtyContext forces every context node below to re-merge its
	// payload into the ambient context.
	SyncDirtyContext
	// SyncForceUpdate re-renders every component below.
	SyncForceUpdate
)

// Config holds engine tuning knobs.
type Config struct {
	// Debug validates every child list before it is rendered, catching
	// duplicate keys and misordered implicit keys in lists that were
	// assembled by hand. Builders always validate.
	// Default: false.
	Debug bool

	// KeyIndexThreshold is the combined old and new window length from
	// which the keyed differ builds a key index instead of scanning.
	// Default: 32.
	KeyIndexThreshold int

	// KeyIndexMinNew is the new window length below which the keyed
	// differ always scans linearly.
	// Default: 4.
	KeyIndexMinNew int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		KeyIndexThreshold: 32,
		KeyIndexMinNew:    4,
	}
}

// Stats counts structural target operations since the engine was created.
type Stats struct {
	Creates  int // Target nodes created
	Inserts  int // Subtrees inserted into a parent
	Moves    int // Existing nodes moved within a parent
	Removes  int // Subtrees removed from a parent
	Replaces int // Nodes replaced because they could not be synced
	Clears   int // Whole child lists cleared at once
	Renders  int // Component render calls
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEvents sets the event binder. Without one, event maps are diffed
// but never bound.
func WithEvents(b EventBinder) EngineOption {
	return func(e *Engine) {
		if b != nil {
			e.events = b
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig replaces the engine configuration. Zero thresholds fall back
// to their defaults.
func WithConfig(c Config) EngineOption {
	return func(e *Engine) {
		d := DefaultConfig()
		if c.KeyIndexThreshold <= 0 {
			c.KeyIndexThreshold = d.KeyIndexThreshold
		}
		if c.KeyIndexMinNew <= 0 {
			c.KeyIndexMinNew = d.KeyIndexMinNew
		}
		e.config = c
	}
}

// Engine reconciles virtual trees into a Target.
//
// An Engine is not safe for concurrent use and must not be re-entered
// from component code while a call is in progress.
type Engine struct {
	target  Target
	events  EventBinder
	logger  *slog.Logger
	config  Config
	stats   Stats
	running bool
}

// NewEngine creates an engine that mutates target.
func NewEngine(target Target, opts ...EngineOption) *Engine {
	e := &Engine{
		target: target,
		events: nopEvents{},
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Stats returns the operation counters.
func (e *Engine) Stats() Stats { return e.stats }

// ResetStats zeroes the operation counters.
func (e *Engine) ResetStats() { e.stats = Stats{} }

// Render creates the target nodes for node, inserts them under parent
// before ref (or at the end when ref is nil) and attaches the subtree.
// It returns the top target node.
func (e *Engine) Render(parent, ref any, node *VNode, ctx Context) (n any, err error) {
	defer e.enter(&err)()
	if node == nil {
		return nil, errors.New(errors.CodeInvalidChild).WithDetail("render requires a node")
	}
	n = e.create(node, ctx)
	e.target.InsertBefore(parent, n, ref)
	e.stats.Inserts++
	e.attach(node)
	return n, nil
}

// Sync reconciles a, which must have been rendered under parent, into b.
func (e *Engine) Sync(parent any, a, b *VNode, ctx Context, flags SyncFlags) (err error) {
	defer e.enter(&err)()
	if a == nil || b == nil {
		return errors.New(errors.CodeInvalidChild).WithDetail("sync requires both nodes")
	}
	if a.instance == nil {
		return errors.New(errors.CodeDetachedNode).WithPath(describe(a))
	}
	e.sync(parent, a, b, ctx, flags)
	return nil
}

// Remove detaches node and removes its target node from parent.
func (e *Engine) Remove(parent any, node *VNode) (err error) {
	defer e.enter(&err)()
	if node == nil || node.instance == nil {
		return errors.New(errors.CodeDetachedNode).WithPath("remove")
	}
	e.remove(parent, node, SyncAttached)
	return nil
}

// DirtyCheck walks an unchanged tree and re-renders components that were
// invalidated or whose connectors select new data. It reports whether
// anything was re-rendered.
func (e *Engine) DirtyCheck(parent any, node *VNode, ctx Context, flags SyncFlags) (changed bool, err error) {
	defer e.enter(&err)()
	if node == nil || node.instance == nil {
		return false, errors.New(errors.CodeDetachedNode).WithPath("dirty check")
	}
	return e.dirtyCheck(parent, node, ctx, flags), nil
}

// enter guards an entry point. Engine precondition panics raised below it
// are turned into the returned error; everything else propagates.
func (e *Engine) enter(err *error) func() {
	if e.running {
		panic("vdom: engine re-entered while a call is in progress")
	}
	e.running = true
	return func() {
		e.running = false
		if r := recover(); r != nil {
			ve, ok := r.(*errors.Error)
			if !ok || ve.Category != errors.CategoryEngine {
				panic(r)
			}
			e.logger.Debug("vdom: precondition failed", "code", ve.Code, "path", ve.Path)
			*err = ve
		}
	}
}

func describe(v *VNode) string {
	switch v.Kind {
	case KindText:
		return "#text"
	case KindElement:
		return v.Tag + "[" + v.KeyString() + "]"
	case KindStateful:
		return v.Desc.(*Stateful).displayName() + "[" + v.KeyString() + "]"
	case KindStateless:
		return v.Desc.(*Func).displayName() + "[" + v.KeyString() + "]"
	case KindConnect:
		return v.Desc.(*Connector).displayName() + "[" + v.KeyString() + "]"
	default:
		return v.Kind.String() + "[" + v.KeyString() + "]"
	}
}
