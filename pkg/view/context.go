package view

import (
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// DepthContext is the nesting depth of the closest enclosing view.
var DepthContext = vango.CreateNamedContext("routerViewDepth", 0)

// MatchedRouteContext carries the record rendered by the closest
// enclosing view.
var MatchedRouteContext = vango.CreateNamedContext[*vango.Memo[*router.MatchedRecord]]("matchedRoute", nil)

// ObserverContext carries an Observer notified of view activity.
var ObserverContext = vango.CreateNamedContext[Observer]("routerViewObserver", nil)

// Observer receives view activity. Implementations must be safe for
// concurrent use when shared between render trees.
type Observer interface {
	// ViewRendered is called on every render; def is nil when nothing
	// matched at depth.
	ViewRendered(depth int, slot string, def *vdom.Definition)

	// InstanceRegistered is called when an instance is written into a
	// record's instance map.
	InstanceRegistered(depth int, slot string)
}

// CurrentDepth returns the depth a view created under scope renders at.
func CurrentDepth(scope *vango.Scope) int {
	return DepthContext.Use(scope)
}

// UseMatchedRoute returns the record rendered by the closest enclosing
// view, or nil. Reading it inside a render subscribes the render to
// route changes.
func UseMatchedRoute(c *vdom.Ctx) *router.MatchedRecord {
	m := MatchedRouteContext.Use(c.Scope)
	if m == nil {
		return nil
	}
	return m.Get()
}

type observers []Observer

// Observers combines observers into one, skipping nil entries. It
// returns nil when nothing remains.
func Observers(obs ...Observer) Observer {
	var out observers
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (o observers) ViewRendered(depth int, slot string, def *vdom.Definition) {
	for _, ob := range o {
		ob.ViewRendered(depth, slot, def)
	}
}

func (o observers) InstanceRegistered(depth int, slot string) {
	for _, ob := range o {
		ob.InstanceRegistered(depth, slot)
	}
}
