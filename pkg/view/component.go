package view

import (
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// Props understood by RouterView. Every other prop is forwarded to the
// rendered component. All of them are read on every render.
const (
	PropName         = "name"
	PropKeepAlive    = "keepAlive"
	PropKeepAliveMax = "keepAliveMax"
	PropRoute        = "route"
)

// RouterView renders the component matched at its depth.
var RouterView = vdom.Define("RouterView", renderRouterView).WithSetup(setupRouterView)

// New describes a RouterView invocation.
func New(props vdom.Props, opts ...vdom.ComponentOption) *vdom.VNode {
	return vdom.Component(RouterView, props, opts...)
}

// Named describes a RouterView rendering slot name.
func Named(name string, attrs ...vdom.Props) *vdom.VNode {
	props := vdom.MergeProps(attrs...)
	props[PropName] = name
	return New(props)
}

func setupRouterView(c *vdom.Ctx) any {
	opts := Options{}
	opts.Name, _ = c.Props[PropName].(string)
	opts.KeepAlive, _ = c.Props[PropKeepAlive].(bool)
	opts.KeepAliveMax, _ = c.Props[PropKeepAliveMax].(int)
	opts.Route, _ = c.Props[PropRoute].(*vango.Signal[*router.Location])
	return UseView(c, opts)
}

func renderRouterView(c *vdom.Ctx) *vdom.VNode {
	v := c.State.(*View)

	name, _ := c.Props[PropName].(string)
	if name == "" {
		name = router.DefaultSlot
	}
	if name != v.Slot() {
		v.SetSlot(name)
	}
	route, _ := c.Props[PropRoute].(*vango.Signal[*router.Location])
	v.SetRoute(route)
	keepAlive, _ := c.Props[PropKeepAlive].(bool)
	keepAliveMax, _ := c.Props[PropKeepAliveMax].(int)
	v.SetKeepAlive(keepAlive, keepAliveMax)

	res, err := v.Render(forwarded(c.Props))
	if err != nil {
		panic(err)
	}
	return res.Node
}

func forwarded(props vdom.Props) vdom.Props {
	out := make(vdom.Props, len(props))
	for k, val := range props {
		switch k {
		case PropName, PropKeepAlive, PropKeepAliveMax, PropRoute:
			continue
		}
		out[k] = val
	}
	return out
}
