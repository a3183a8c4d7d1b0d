package mount

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rverrors "github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/vango"
	"github.com/vango-dev/routeview/pkg/vdom"
)

// counter records how often a definition rendered.
type counter struct{ renders int }

func leaf(name string, c *counter) *vdom.Definition {
	return vdom.Define(name, func(ctx *vdom.Ctx) *vdom.VNode {
		if c != nil {
			c.renders++
		}
		return vdom.Span(name)
	})
}

func TestMountExpandsComponents(t *testing.T) {
	inner := leaf("Inner", nil)
	outer := vdom.Define("Outer", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Class("outer"), vdom.Component(inner, nil))
	})

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(outer, nil)))

	tree := rt.Tree()
	require.NotNil(t, tree)
	assert.Equal(t, "div", tree.Tag)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "span", tree.Children[0].Tag)
	assert.Equal(t, "Inner", vdom.TextContent(tree))
	assert.EqualValues(t, 1, rt.Passes())
}

func TestScopesFollowTreePosition(t *testing.T) {
	level := vango.CreateContext(0)
	var seen []int

	reader := vdom.Define("Reader", func(c *vdom.Ctx) *vdom.VNode {
		seen = append(seen, level.Use(c.Scope))
		return nil
	})
	provider := vdom.Define("Provider", func(c *vdom.Ctx) *vdom.VNode {
		level.Provide(c.Scope, level.Use(c.Scope)+1)
		return vdom.Div(vdom.Component(reader, nil))
	})
	app := vdom.Define("App", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Fragment(
			vdom.Component(provider, nil),
			vdom.Component(reader, nil),
		)
	})

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(app, nil)))

	// The reader inside the provider sees 1; its sibling outside sees 0.
	assert.Equal(t, []int{1, 0}, seen)
}

func TestReuseAndReplace(t *testing.T) {
	a := leaf("A", nil)
	b := leaf("B", nil)
	var mounted, unmounted []string
	hooks := &vdom.Hooks{
		OnMounted:   func(i vdom.Instance) { mounted = append(mounted, i.Definition().Name) },
		OnUnmounted: func(i vdom.Instance) { unmounted = append(unmounted, i.Definition().Name) },
	}
	ref := vango.NewRef[vdom.Instance](nil)

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(a, nil, vdom.WithHooks(hooks), vdom.WithRef(ref))))
	first := ref.Current()
	require.NotNil(t, first)

	// Same definition at the same position: reused, no new mount.
	require.NoError(t, rt.Mount(vdom.Component(a, nil, vdom.WithHooks(hooks), vdom.WithRef(ref))))
	assert.Same(t, first, ref.Current())
	assert.Equal(t, []string{"A"}, mounted)

	// Different definition: old unmounted, new mounted.
	require.NoError(t, rt.Mount(vdom.Component(b, nil, vdom.WithHooks(hooks), vdom.WithRef(ref))))
	assert.Equal(t, []string{"A", "B"}, mounted)
	assert.Equal(t, []string{"A"}, unmounted)
	assert.Equal(t, "B", ref.Current().Definition().Name)
	assert.False(t, first.Mounted())

	rt.Unmount()
	assert.Nil(t, rt.Tree())
	assert.Nil(t, ref.Current())
	assert.Equal(t, []string{"A", "B"}, unmounted)
}

func TestKeyedInvocationsKeepIdentity(t *testing.T) {
	item := vdom.Define("Item", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Li(c.Props["label"].(string))
	}).WithSetup(func(c *vdom.Ctx) any { return c.Props["label"] })

	list := func(labels ...string) *vdom.VNode {
		return vdom.Ul(vdom.Range(labels, func(_ int, l string) *vdom.VNode {
			return vdom.Component(item, vdom.Props{"label": l}, vdom.WithKey(l))
		}))
	}

	refs := map[string]vdom.Instance{}
	rt := New()
	require.NoError(t, rt.Mount(list("x", "y")))
	for _, c := range rt.top.children {
		refs[c.State().(string)] = c
	}

	require.NoError(t, rt.Mount(list("y", "x")))
	for _, c := range rt.top.children {
		assert.Same(t, refs[c.State().(string)], vdom.Instance(c), "keyed item %v should be reused", c.State())
	}
}

func TestSignalInvalidationRerendersOnlyDirty(t *testing.T) {
	label := vango.NewSignal("one")
	var staticCount counter
	static := leaf("Static", &staticCount)

	dynRenders := 0
	dynamic := vdom.Define("Dynamic", func(c *vdom.Ctx) *vdom.VNode {
		dynRenders++
		return vdom.P(label.Get())
	})
	app := vdom.Define("App", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Component(static, nil), vdom.Component(dynamic, nil))
	})

	invalidations := 0
	rt := New(WithInvalidate(func() { invalidations++ }))
	require.NoError(t, rt.Mount(vdom.Component(app, nil)))
	assert.False(t, rt.Dirty())

	label.Set("two")
	assert.True(t, rt.Dirty())
	assert.Equal(t, 1, invalidations)

	require.NoError(t, rt.Flush())
	assert.False(t, rt.Dirty())
	assert.Equal(t, "Statictwo", vdom.TextContent(rt.Tree()))
	assert.Equal(t, 2, dynRenders)
	assert.Equal(t, 1, staticCount.renders, "clean sibling must not re-render")

	// Flush without invalidation is a no-op.
	require.NoError(t, rt.Flush())
	assert.EqualValues(t, 2, rt.Passes())
}

func TestPropsChangeRerendersChild(t *testing.T) {
	renders := 0
	child := vdom.Define("Child", func(c *vdom.Ctx) *vdom.VNode {
		renders++
		return vdom.Text(c.Props["v"].(string))
	})

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(child, vdom.Props{"v": "a"})))
	require.NoError(t, rt.Mount(vdom.Component(child, vdom.Props{"v": "a"})))
	assert.Equal(t, 1, renders, "equal props should not re-render")

	require.NoError(t, rt.Mount(vdom.Component(child, vdom.Props{"v": "b"})))
	assert.Equal(t, 2, renders)
	assert.Equal(t, "b", vdom.TextContent(rt.Tree()))
}

func TestHooksRunChildrenFirst(t *testing.T) {
	var order []string
	hook := func(name string) *vdom.Hooks {
		return &vdom.Hooks{OnMounted: func(vdom.Instance) { order = append(order, name) }}
	}
	child := leaf("Child", nil)
	parent := vdom.Define("Parent", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Component(child, nil, vdom.WithHooks(hook("child"))))
	})

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(parent, nil, vdom.WithHooks(hook("parent")))))
	assert.Equal(t, []string{"child", "parent"}, order)
}

func TestHookSignalWritesAreBatched(t *testing.T) {
	first := vango.NewSignal(0)
	second := vango.NewSignal(0)
	notified := 0
	watcher := vango.NewComputation(func() { notified++ })
	watcher.Run(func() {
		_ = first.Get()
		_ = second.Get()
	})
	defer watcher.Dispose()

	var seenInHook []int
	hooks := &vdom.Hooks{
		OnMounted: func(vdom.Instance) {
			first.Set(1)
			second.Set(2)
			seenInHook = append(seenInHook, notified)
		},
	}
	child := leaf("Child", nil)
	parent := vdom.Define("Parent", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Component(child, nil, vdom.WithHooks(hooks)))
	})

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(parent, nil, vdom.WithHooks(&vdom.Hooks{
		OnMounted: func(vdom.Instance) { seenInHook = append(seenInHook, notified) },
	}))))

	assert.Equal(t, []int{0, 0}, seenInHook, "hooks must run before any notification")
	assert.Equal(t, 1, notified, "writes from hooks should notify once")
	assert.Equal(t, 2, second.Peek())
}

func TestRenderPanicIsReportedAndRetried(t *testing.T) {
	cause := errors.New("props exploded")
	fail := vango.NewSignal(true)
	flaky := vdom.Define("Flaky", func(c *vdom.Ctx) *vdom.VNode {
		if fail.Get() {
			panic(cause)
		}
		return vdom.Text("ok")
	})
	app := vdom.Define("App", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Div(vdom.Component(flaky, nil))
	})

	rt := New()
	err := rt.Mount(vdom.Component(app, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, rverrors.HasCode(err, "E202"))
	assert.Nil(t, rt.Tree())
	assert.True(t, rt.Dirty())

	fail.Set(false)
	require.NoError(t, rt.Flush())
	assert.Equal(t, "ok", vdom.TextContent(rt.Tree()))
}

func TestMissingRenderFunction(t *testing.T) {
	rt := New()
	err := rt.Mount(vdom.Component(&vdom.Definition{Name: "Broken"}, nil))
	require.Error(t, err)
	assert.True(t, rverrors.HasCode(err, "E201"))
}

func TestPropsEqual(t *testing.T) {
	p := &struct{}{}
	fn := func() {}
	assert.True(t, propsEqual(vdom.Props{"a": 1, "m": map[string]string{"k": "v"}, "p": p},
		vdom.Props{"a": 1, "m": map[string]string{"k": "v"}, "p": p}))
	assert.False(t, propsEqual(vdom.Props{"a": 1}, vdom.Props{"a": "1"}))
	assert.False(t, propsEqual(vdom.Props{"a": 1}, vdom.Props{"b": 1}))
	assert.False(t, propsEqual(vdom.Props{"f": fn}, vdom.Props{"f": fn}))
	assert.True(t, propsEqual(vdom.Props{"n": nil}, vdom.Props{"n": nil}))
	assert.False(t, propsEqual(vdom.Props{"p": p}, vdom.Props{"p": &struct{}{}}))
}

func TestUpdatedHookAndCleanup(t *testing.T) {
	var cleaned int
	var updated []uint64
	withCleanup := vdom.Define("C", func(c *vdom.Ctx) *vdom.VNode {
		return vdom.Text("c")
	}).WithSetup(func(c *vdom.Ctx) any {
		c.Instance.OnCleanup(func() { cleaned++ })
		return nil
	})
	hooks := &vdom.Hooks{OnUpdated: func(i vdom.Instance) { updated = append(updated, i.ID()) }}

	rt := New()
	require.NoError(t, rt.Mount(vdom.Component(withCleanup, nil, vdom.WithHooks(hooks))))
	assert.Empty(t, updated, "a new instance is mounted, not updated")

	require.NoError(t, rt.Mount(vdom.Component(withCleanup, vdom.Props{"x": 1}, vdom.WithHooks(hooks))))
	assert.Len(t, updated, 1)
	assert.Zero(t, cleaned)

	rt.Unmount()
	assert.Equal(t, 1, cleaned)
}
