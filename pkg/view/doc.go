// Package view renders the component matched for one level of a nested
// route.
//
// Each RouterView reads its depth from the enclosing scope (0 at the
// root), provides depth+1 to its own subtree and renders the component
// that Location.Matched[depth] registers under its slot. Props are derived
// from the record's props configuration, attributes passed to the view
// are forwarded and win over derived props, and the live instance of the
// rendered component is registered in the record's instance map.
//
//	app := vdom.Define("App", func(c *vdom.Ctx) *vdom.VNode {
//	    return vdom.Div(vdom.ID("app"), view.New(nil))
//	})
//
//	r.Install(rt.Scope())
//	rt.Mount(vdom.Component(app, nil))
//
// Components that want the resolver without the RouterView wrapper call
// UseView from their Setup.
package view
