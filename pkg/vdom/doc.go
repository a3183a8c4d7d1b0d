// Package vdom provides render descriptions for routeview.
//
// A VNode describes what to render: elements, text, fragments, raw HTML,
// component invocations and keep-alive boundaries. Descriptions are plain
// data; the mount package turns them into live component instances.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// # Components
//
// A Definition is a named, renderable unit. Component(def, props) describes
// an invocation of it; the runtime creates (or reuses) an Instance and
// calls the definition's Render with a Ctx carrying the props and the
// instance's own Scope:
//
//	var Profile = vdom.Define("Profile", func(c *vdom.Ctx) *vdom.VNode {
//	    return vdom.H2(vdom.Textf("user %v", c.Props["id"]))
//	})
//
//	node := vdom.Component(Profile, vdom.Props{"id": "42"})
package vdom
