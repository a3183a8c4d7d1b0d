package view

import (
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// MatchedRecord returns loc.Matched[depth], or nil when loc is nil or the
// chain is shorter than depth+1.
func MatchedRecord(loc *router.Location, depth int) *router.MatchedRecord {
	return loc.At(depth)
}

// ResolveComponent returns the component rec registers under slot, or nil.
func ResolveComponent(rec *router.MatchedRecord, slot string) *vdom.Definition {
	if slot == "" {
		slot = router.DefaultSlot
	}
	return rec.Component(slot)
}

// ComputeProps derives component props from a props configuration:
// none yields an empty map, params the location params, static the
// configured map and func whatever the function returns. Errors from the
// function are returned unchanged.
func ComputeProps(cfg router.PropsConfig, loc *router.Location) (vdom.Props, error) {
	switch cfg.Mode {
	case router.PropsParams:
		return vdom.Props(loc.ParamProps()), nil
	case router.PropsStatic:
		return vdom.Props(cfg.Static).Clone(), nil
	case router.PropsFunc:
		out, err := cfg.Func(loc)
		if err != nil {
			return nil, err
		}
		return vdom.Props(out).Clone(), nil
	default:
		return vdom.Props{}, nil
	}
}
