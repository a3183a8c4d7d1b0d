package main

import (
	"fmt"
	"sort"

	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vdom"
	"github.com/vango-dev/routeview/pkg/view"
)

// Built-in components a route table can reference by name.
var (
	// Shell renders a page frame with an optional "title" prop and the
	// next nested view.
	shellComponent = vdom.Define("Shell", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Class("shell"),
			vdom.If(c.Props["title"] != nil, vdom.Header(vdom.H1(vdom.Textf("%v", c.Props["title"])))),
			vdom.Main(view.New(nil)),
		)
	})

	// Section renders a titled section with the next nested view and an
	// optional "aside" named view.
	sectionComponent = vdom.Define("Section", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Section(
			vdom.If(c.Props["title"] != nil, vdom.H2(vdom.Textf("%v", c.Props["title"]))),
			view.New(nil),
			view.Named("aside"),
		)
	})

	// Props lists its props, which makes params and static props visible.
	propsComponent = vdom.Define("Props", func(c *vdom.Ctx) *vdom.VNode {
		keys := make([]string, 0, len(c.Props))
		for k := range c.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return vdom.Ul(vdom.Class("props"), vdom.Range(keys, func(_ int, k string) *vdom.VNode {
			return vdom.Li(vdom.Text(fmt.Sprintf("%s=%v", k, c.Props[k])))
		}))
	})

	// Text renders the "text" prop as a paragraph.
	textComponent = vdom.Define("Text", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.P(vdom.Textf("%v", c.Props["text"]))
	})
)

func builtins() router.Registry {
	return router.Registry{
		shellComponent.Name:   shellComponent,
		sectionComponent.Name: sectionComponent,
		propsComponent.Name:   propsComponent,
		textComponent.Name:    textComponent,
	}
}
