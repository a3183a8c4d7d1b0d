package mount

import (
	"sync/atomic"

	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// instance is a live component instance.
type instance struct {
	id    uint64
	def   *vdom.Definition
	props vdom.Props
	scope *vango.Scope
	state any
	comp  *vango.Computation
	rt    *Runtime

	// hooks and ref come from the latest invocation that rendered us.
	hooks *vdom.Hooks
	ref   *vango.Ref[vdom.Instance]

	dirty    atomic.Bool
	rendered bool
	mounted  bool
	active   bool

	// discarded marks instances created by a pass that failed.
	discarded bool

	// output is the description returned by the last Render.
	output *vdom.VNode

	children   map[string]*instance
	boundaries map[string]*keepAliveCache

	cleanups []func()
}

var _ vdom.Instance = (*instance)(nil)

func newInstance(rt *Runtime, def *vdom.Definition, parentScope *vango.Scope) *instance {
	inst := &instance{
		id:    vango.NextID(),
		def:   def,
		scope: parentScope.Child(),
		rt:    rt,
	}
	inst.comp = vango.NewComputation(inst.MarkDirty)
	return inst
}

func (i *instance) ID() uint64                  { return i.id }
func (i *instance) Definition() *vdom.Definition { return i.def }
func (i *instance) Props() vdom.Props            { return i.props }
func (i *instance) Scope() *vango.Scope          { return i.scope }
func (i *instance) State() any                   { return i.state }
func (i *instance) Mounted() bool                { return i.mounted }
func (i *instance) Active() bool                 { return i.active }

// OnCleanup implements vdom.Instance.
func (i *instance) OnCleanup(fn func()) {
	if fn != nil {
		i.cleanups = append(i.cleanups, fn)
	}
}

// MarkDirty implements vango.Listener. Inactive (cached) instances only
// remember that they are stale; they re-render when reactivated.
func (i *instance) MarkDirty() {
	i.dirty.Store(true)
	if i.active && i.rt != nil {
		i.rt.invalidate()
	}
}

func (i *instance) name() string {
	if i.def == nil {
		return "<root>"
	}
	return i.def.Name
}

// setProps replaces the props and marks the instance dirty if they changed.
func (i *instance) setProps(p vdom.Props) {
	if p == nil {
		p = vdom.Props{}
	}
	if i.rendered && propsEqual(i.props, p) {
		return
	}
	i.props = p
	i.dirty.Store(true)
}

func (i *instance) ctx() *vdom.Ctx {
	return &vdom.Ctx{
		Props:    i.props,
		Scope:    i.scope,
		Instance: i,
		State:    i.state,
	}
}
