package view

import (
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// Options configures UseView.
type Options struct {
	// Route overrides the location provided by router.LocationContext.
	Route *vango.Signal[*router.Location]

	// Name is the slot to render. Defaults to router.DefaultSlot.
	Name string

	// KeepAlive caches component instances when the matched component
	// changes, instead of destroying them.
	KeepAlive bool

	// KeepAliveMax bounds the cache. Zero means unbounded.
	KeepAliveMax int
}

// View resolves and renders one nesting level.
type View struct {
	depth int
	slot  *vango.Signal[string]

	// route holds the location source; ctxRoute is the one provided by
	// the enclosing scope and is used when no override is set.
	route    *vango.Signal[*vango.Signal[*router.Location]]
	ctxRoute *vango.Signal[*router.Location]

	keepAlive bool
	max       int

	record    *vango.Memo[*router.MatchedRecord]
	component *vango.Memo[*vdom.Definition]
	props     *vango.Memo[propsResult]

	ref      *vango.Ref[vdom.Instance]
	observer Observer

	// registered is the binding that last wrote an instance.
	registered *Binding
}

type propsResult struct {
	props vdom.Props
	err   error
}

// UseView creates the resolver for the instance rendering c. Call it once,
// from Setup: it reads the depth of the enclosing scope and provides
// depth+1 and the matched record on c.Scope.
func UseView(c *vdom.Ctx, opts Options) *View {
	ctxRoute := router.LocationContext.Use(c.Scope)
	route := opts.Route
	if route == nil {
		route = ctxRoute
	}
	name := opts.Name
	if name == "" {
		name = router.DefaultSlot
	}

	v := &View{
		depth:     DepthContext.Use(c.Scope),
		route:     vango.NewSignal(route),
		ctxRoute:  ctxRoute,
		slot:      vango.NewSignal(name),
		keepAlive: opts.KeepAlive,
		max:       opts.KeepAliveMax,
		ref:       vango.NewRef[vdom.Instance](nil),
		observer:  ObserverContext.Use(c.Scope),
	}

	v.record = vango.NewMemo(func() *router.MatchedRecord {
		return MatchedRecord(v.location(), v.depth)
	})
	v.component = vango.NewMemo(func() *vdom.Definition {
		return ResolveComponent(v.record.Get(), v.slot.Get())
	})
	v.props = vango.NewMemo(func() propsResult {
		if v.component.Get() == nil {
			return propsResult{}
		}
		rec := v.record.Get()
		p, err := ComputeProps(rec.PropsFor(v.slot.Get()), v.location())
		return propsResult{props: p, err: err}
	})

	DepthContext.Provide(c.Scope, v.depth+1)
	MatchedRouteContext.Provide(c.Scope, v.record)

	if c.Instance != nil {
		c.Instance.OnCleanup(v.Dispose)
	}
	return v
}

func (v *View) location() *router.Location {
	src := v.route.Get()
	if src == nil {
		return nil
	}
	return src.Get()
}

// SetRoute overrides the location source. nil restores the location
// provided by the enclosing scope.
func (v *View) SetRoute(route *vango.Signal[*router.Location]) {
	if route == nil {
		route = v.ctxRoute
	}
	v.route.Set(route)
}

// SetKeepAlive changes the keep-alive settings used by later renders.
// Switching keepAlive rebuilds the rendered instance; switching max
// only rebounds the cache.
func (v *View) SetKeepAlive(on bool, max int) {
	v.keepAlive = on
	v.max = max
}

// Depth returns the depth this view renders.
func (v *View) Depth() int { return v.depth }

// Slot returns the slot this view renders.
func (v *View) Slot() string { return v.slot.Peek() }

// SetSlot switches the slot this view renders.
func (v *View) SetSlot(name string) {
	if name == "" {
		name = router.DefaultSlot
	}
	v.slot.Set(name)
}

// Record returns the matched record for this depth, or nil.
func (v *View) Record() *router.MatchedRecord { return v.record.Get() }

// Component returns the component to render, or nil.
func (v *View) Component() *vdom.Definition { return v.component.Get() }

// Props returns the props derived for the current component. It returns
// an empty map without calling any props function when there is no
// component.
func (v *View) Props() (vdom.Props, error) {
	r := v.props.Get()
	if r.err != nil {
		return nil, r.err
	}
	if r.props == nil {
		return vdom.Props{}, nil
	}
	return r.props, nil
}

// Instance returns the live instance of the rendered component.
func (v *View) Instance() vdom.Instance { return v.ref.Current() }

// Dispose detaches the view from the route.
func (v *View) Dispose() {
	v.props.Dispose()
	v.component.Dispose()
	v.record.Dispose()
}

// Result is the output of Render.
type Result struct {
	// Node describes what to mount. It is nil, or an empty keep-alive
	// boundary, when nothing matched.
	Node *vdom.VNode

	Depth     int
	Record    *router.MatchedRecord
	Component *vdom.Definition

	// Props are the props handed to Component, attributes included.
	Props vdom.Props

	// Binding registers the mounted instance in Record. It is nil when
	// nothing is rendered.
	Binding *Binding
}

// Render describes the component for the current route. attrs are
// forwarded to the component and override derived props of the same name.
// Errors from a props function are returned unchanged.
func (v *View) Render(attrs vdom.Props) (Result, error) {
	rec := v.record.Get()
	def := v.component.Get()
	slot := v.slot.Get()
	res := Result{Depth: v.depth, Record: rec, Component: def}

	if v.observer != nil {
		v.observer.ViewRendered(v.depth, slot, def)
	}
	if def == nil {
		if v.keepAlive {
			res.Node = vdom.KeepAlive(nil, v.max)
		}
		return res, nil
	}

	computed, err := v.Props()
	if err != nil {
		return res, err
	}
	res.Props = vdom.MergeProps(computed, attrs)
	res.Binding = &Binding{view: v, Record: rec, Slot: slot, Depth: v.depth}

	node := vdom.Component(def, res.Props, vdom.WithHooks(res.Binding.Hooks()), vdom.WithRef(v.ref))
	if v.keepAlive {
		node = vdom.KeepAlive(node, v.max)
	}
	res.Node = node
	return res, nil
}
