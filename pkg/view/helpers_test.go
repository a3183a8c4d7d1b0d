package view

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routeview/pkg/mount"
	"github.com/vango-dev/routeview/pkg/router"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// harness mounts an App rendering a RouterView against a router.
type harness struct {
	r  *router.Router
	rt *mount.Runtime
}

func newHarness(t *testing.T, routes ...router.RouteRecord) *harness {
	t.Helper()
	r := router.New()
	for _, rec := range routes {
		require.NoError(t, r.AddRoute(rec))
	}
	rt := mount.New()
	r.Install(rt.Scope())
	t.Cleanup(rt.Unmount)
	return &harness{r: r, rt: rt}
}

// mount mounts app, or a bare RouterView when app is nil.
func (h *harness) mount(t *testing.T, app *vdom.VNode) {
	t.Helper()
	if app == nil {
		app = New(nil)
	}
	require.NoError(t, h.rt.Mount(app))
}

func (h *harness) visit(t *testing.T, path string) {
	t.Helper()
	_, err := h.r.Replace(path)
	require.NoError(t, err)
	require.NoError(t, h.rt.Flush())
}

func (h *harness) text() string {
	return vdom.TextContent(h.rt.Tree())
}

// page renders its name, its props and a nested RouterView.
func page(name string) *vdom.Definition {
	return vdom.Define(name, func(c *vdom.Ctx) *vdom.VNode {
		label := name
		if id, ok := c.Props["id"]; ok {
			label = fmt.Sprintf("%s(%v)", name, id)
		}
		return vdom.Div(vdom.Text(label+";"), New(nil))
	})
}

// leafPage renders its name only.
func leafPage(name string) *vdom.Definition {
	return vdom.Define(name, func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Text(name + ";")
	})
}

// countingObserver counts view activity.
type countingObserver struct {
	mu         sync.Mutex
	empty      map[int]int
	rendered   map[int]int
	registered map[int]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{empty: map[int]int{}, rendered: map[int]int{}, registered: map[int]int{}}
}

func (o *countingObserver) ViewRendered(depth int, slot string, def *vdom.Definition) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if def == nil {
		o.empty[depth]++
		return
	}
	o.rendered[depth]++
}

func (o *countingObserver) InstanceRegistered(depth int, slot string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registered[depth]++
}
