package mount

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// Runtime mounts render descriptions and keeps them up to date.
// A Runtime is driven from one goroutine at a time; MarkDirty notifications
// may arrive from any goroutine.
type Runtime struct {
	logger *slog.Logger
	scope  *vango.Scope

	// onInvalidate is called when an active instance becomes dirty.
	onInvalidate func()

	mu   sync.Mutex
	top  *instance
	tree *vdom.VNode

	dirty  atomic.Bool
	passes atomic.Uint64
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithScope sets the root scope. Values provided on it (the current route,
// for example) are visible to every instance.
func WithScope(s *vango.Scope) Option {
	return func(r *Runtime) {
		if s != nil {
			r.scope = s
		}
	}
}

// WithInvalidate registers a callback run whenever the tree needs a Flush.
func WithInvalidate(fn func()) Option {
	return func(r *Runtime) {
		r.onInvalidate = fn
	}
}

// New creates a Runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger: slog.Default(),
		scope:  vango.NewScope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.top = &instance{
		id:     vango.NextID(),
		scope:  r.scope,
		rt:     r,
		active: true,
	}
	return r
}

// Scope returns the root scope.
func (r *Runtime) Scope() *vango.Scope {
	return r.scope
}

// Tree returns the expanded description from the last successful pass.
func (r *Runtime) Tree() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}

// Dirty reports whether an active instance has been invalidated since the
// last pass.
func (r *Runtime) Dirty() bool {
	return r.dirty.Load()
}

// Passes returns the number of completed render passes.
func (r *Runtime) Passes() uint64 {
	return r.passes.Load()
}

func (r *Runtime) invalidate() {
	if r.dirty.CompareAndSwap(false, true) && r.onInvalidate != nil {
		r.onInvalidate()
	}
}

// Mount renders root and reconciles it against the previously mounted tree.
func (r *Runtime) Mount(root *vdom.VNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.top.output = root
	r.top.rendered = true
	return r.runPass()
}

// Flush re-runs the render pass if anything was invalidated.
func (r *Runtime) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty.Load() {
		return nil
	}
	return r.runPass()
}

// Unmount destroys every instance and clears the tree.
func (r *Runtime) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &pass{}
	for _, child := range r.top.children {
		r.unmount(p, child)
	}
	for _, b := range r.top.boundaries {
		b.unmountAll(r, p)
	}
	r.top.children = nil
	r.top.boundaries = nil
	r.top.output = nil
	r.tree = nil
	p.runHooks()
}

// pass collects the side effects of one render pass.
type pass struct {
	created []*instance
	before  []func() // unmount and deactivate hooks
	after   []func() // activate and mount hooks
}

// runHooks runs the collected hooks in one batch, so signal writes made by
// hooks notify once after every hook has run.
func (p *pass) runHooks() {
	vango.Batch(func() {
		for _, fn := range p.before {
			fn()
		}
		for _, fn := range p.after {
			fn()
		}
	})
}

func (r *Runtime) runPass() (err error) {
	p := &pass{}
	r.dirty.Store(false)

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		// Abandon instances created by the failed pass and retry on the
		// next Flush.
		for _, inst := range p.created {
			inst.discarded = true
			inst.comp.Dispose()
			for _, fn := range inst.cleanups {
				fn()
			}
			inst.cleanups = nil
		}
		r.dirty.Store(true)
		err = renderFailure(rec)
		r.logger.Error("render pass failed", "error", err)
	}()

	tree := r.renderInstance(p, r.top)
	r.tree = tree
	r.passes.Add(1)
	p.runHooks()

	r.logger.Debug("render pass complete",
		"created", len(p.created),
		"pass", r.passes.Load())
	return nil
}

func renderFailure(rec any) error {
	if e, ok := rec.(error); ok {
		return rverrors.New("E202").Wrap(e)
	}
	return rverrors.New("E202").WithDetailf("panic: %v", rec)
}

// renderInstance renders inst if needed and expands its output.
func (r *Runtime) renderInstance(p *pass, inst *instance) *vdom.VNode {
	if inst.def != nil && (!inst.rendered || inst.dirty.Load()) {
		if inst.def.Render == nil {
			panic(rverrors.New("E201").WithDetailf("component %q", inst.def.Name))
		}
		inst.dirty.Store(false)
		c := inst.ctx()
		var out *vdom.VNode
		inst.comp.Run(func() {
			out = inst.def.Render(c)
		})
		inst.output = out
		inst.rendered = true
	}

	next := make(map[string]*instance)
	nextBoundaries := make(map[string]*keepAliveCache)
	expanded := r.expand(p, inst, inst.output, "0", next, nextBoundaries)

	for key, child := range inst.children {
		if next[key] != child {
			r.unmount(p, child)
		}
	}
	for key, b := range inst.boundaries {
		if nextBoundaries[key] != b {
			b.unmountAll(r, p)
		}
	}
	inst.children = next
	inst.boundaries = nextBoundaries
	return expanded
}

// expand walks a description owned by owner, replacing component
// invocations and keep-alive boundaries with their rendered output.
func (r *Runtime) expand(p *pass, owner *instance, node *vdom.VNode, path string,
	next map[string]*instance, nextBoundaries map[string]*keepAliveCache) *vdom.VNode {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindText, vdom.KindRaw:
		return node

	case vdom.KindElement, vdom.KindFragment:
		out := *node
		out.Children = make([]*vdom.VNode, 0, len(node.Children))
		for i, child := range node.Children {
			if c := r.expand(p, owner, child, childPath(path, i, child), next, nextBoundaries); c != nil {
				out.Children = append(out.Children, c)
			}
		}
		return &out

	case vdom.KindComponent:
		if next[path] != nil {
			path = path + "~" + strconv.Itoa(len(next))
		}
		child := owner.children[path]
		if child == nil || child.discarded || child.def != node.Def {
			child = r.create(p, owner, node.Def, node.Props)
		}
		next[path] = child
		return r.renderInvocation(p, child, node)

	case vdom.KindKeepAlive:
		b := owner.boundaries[path]
		if b == nil {
			b = newKeepAliveCache()
		}
		b.max = node.KeepAliveMax()
		nextBoundaries[path] = b

		var inner *vdom.VNode
		if len(node.Children) > 0 {
			inner = node.Children[0]
		}
		if inner == nil || inner.Kind != vdom.KindComponent {
			b.deactivateCurrent(r, p)
			return r.expand(p, owner, inner, path+"/0", next, nextBoundaries)
		}
		child := b.resolve(r, p, owner, inner)
		return r.renderInvocation(p, child, inner)

	default:
		panic(fmt.Errorf("unknown node kind: %d", node.Kind))
	}
}

// renderInvocation applies an invocation's props, hooks and ref to inst,
// renders it, and queues its mount hook when it is new.
func (r *Runtime) renderInvocation(p *pass, inst *instance, node *vdom.VNode) *vdom.VNode {
	inst.setProps(node.Props)
	inst.hooks = node.Hooks
	inst.ref = node.Ref

	isNew := !inst.mounted
	out := r.renderInstance(p, inst)

	if isNew {
		inst.mounted = true
		inst.active = true
		p.after = append(p.after, func() {
			if inst.ref != nil {
				inst.ref.Set(inst)
			}
			if inst.hooks != nil && inst.hooks.OnMounted != nil {
				inst.hooks.OnMounted(inst)
			}
		})
	} else {
		ref, hooks := inst.ref, inst.hooks
		p.after = append(p.after, func() {
			if ref != nil && ref.Current() != vdom.Instance(inst) {
				ref.Set(inst)
			}
			if hooks != nil && hooks.OnUpdated != nil {
				hooks.OnUpdated(inst)
			}
		})
	}
	return out
}

// childPath identifies a child position. Keyed children are identified by
// key alone so reordering keeps their instances.
func childPath(parent string, index int, child *vdom.VNode) string {
	if child != nil && child.Key != "" {
		return parent + "/#" + child.Key
	}
	return parent + "/" + strconv.Itoa(index)
}

func (r *Runtime) create(p *pass, owner *instance, def *vdom.Definition, props vdom.Props) *instance {
	if def == nil {
		panic(rverrors.New("E201").WithDetail("component invocation without a definition"))
	}
	inst := newInstance(r, def, owner.scope)
	inst.props = props
	if inst.props == nil {
		inst.props = vdom.Props{}
	}
	if def.Setup != nil {
		c := inst.ctx()
		vango.Untracked(func() {
			inst.state = def.Setup(c)
		})
	}
	p.created = append(p.created, inst)
	r.logger.Debug("instance created", "component", def.Name, "id", inst.id)
	return inst
}

// unmount destroys inst and everything beneath it.
func (r *Runtime) unmount(p *pass, inst *instance) {
	for _, child := range inst.children {
		r.unmount(p, child)
	}
	for _, b := range inst.boundaries {
		b.unmountAll(r, p)
	}
	inst.children = nil
	inst.boundaries = nil

	inst.comp.Dispose()
	wasMounted := inst.mounted
	inst.mounted = false
	inst.active = false
	cleanups := inst.cleanups
	inst.cleanups = nil
	if !wasMounted {
		for _, fn := range cleanups {
			fn()
		}
		return
	}

	r.logger.Debug("instance unmounted", "component", inst.name(), "id", inst.id)
	hooks, ref := inst.hooks, inst.ref
	p.before = append(p.before, func() {
		if ref != nil && ref.Current() == vdom.Instance(inst) {
			ref.Clear()
		}
		if hooks != nil && hooks.OnUnmounted != nil {
			hooks.OnUnmounted(inst)
		}
		for _, fn := range cleanups {
			fn()
		}
	})
}

// setActive flips the active flag on inst and its descendants, queueing
// activate or deactivate hooks children first.
func (r *Runtime) setActive(p *pass, inst *instance, active bool) {
	for _, child := range inst.children {
		r.setActive(p, child, active)
	}
	for _, b := range inst.boundaries {
		if b.current != nil {
			r.setActive(p, b.current, active)
		}
	}
	if inst.active == active {
		return
	}
	inst.active = active
	if active {
		r.logger.Debug("instance activated", "component", inst.name(), "id", inst.id)
		p.after = append(p.after, func() {
			if inst.hooks != nil && inst.hooks.OnActivated != nil {
				inst.hooks.OnActivated(inst)
			}
		})
		return
	}
	r.logger.Debug("instance deactivated", "component", inst.name(), "id", inst.id)
	p.before = append(p.before, func() {
		if inst.hooks != nil && inst.hooks.OnDeactivated != nil {
			inst.hooks.OnDeactivated(inst)
		}
	})
}
