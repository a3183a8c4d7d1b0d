package vdom

import (
	"strconv"

	"github.com/vango-dev/routeview/pkg/vango"
)

// RenderFunc renders one component instance.
type RenderFunc func(c *Ctx) *VNode

// SetupFunc runs once when an instance is created. Its result is kept on the
// instance and handed to every render as Ctx.State.
type SetupFunc func(c *Ctx) any

// Definition is a named renderable unit: the component descriptor that
// route records register under a slot.
type Definition struct {
	Name   string
	Setup  SetupFunc
	Render RenderFunc
}

// Define creates a component definition.
func Define(name string, render RenderFunc) *Definition {
	return &Definition{Name: name, Render: render}
}

// WithSetup sets the setup function and returns the definition.
func (d *Definition) WithSetup(setup SetupFunc) *Definition {
	d.Setup = setup
	return d
}

// String returns the definition name.
func (d *Definition) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Name
}

// Ctx is passed to Setup and Render.
type Ctx struct {
	// Props are the props the instance was rendered with.
	Props Props

	// Scope is the instance's own scope. Values provided on it are visible
	// to the instance's output subtree only.
	Scope *vango.Scope

	// Instance is the live instance being rendered.
	Instance Instance

	// State is the value returned by Setup, or nil.
	State any
}

// Instance is a live component instance owned by the mount runtime.
type Instance interface {
	// ID is unique for the lifetime of the process.
	ID() uint64

	// Definition is the component this instance was created from.
	Definition() *Definition

	// Props are the props of the latest render.
	Props() Props

	// Scope is the instance's own scope.
	Scope() *vango.Scope

	// State is the value returned by the definition's Setup.
	State() any

	// Mounted reports whether the instance is currently part of the tree
	// (active, or cached in a keep-alive boundary).
	Mounted() bool

	// Active reports whether the instance is currently rendered.
	Active() bool

	// OnCleanup registers fn to run when the instance is destroyed.
	OnCleanup(fn func())
}

// Hooks are lifecycle callbacks attached to a component invocation.
// The runtime calls them after a render pass has completed.
type Hooks struct {
	// OnMounted runs once after the instance is created and first rendered.
	OnMounted func(Instance)

	// OnUnmounted runs once when the instance is destroyed.
	OnUnmounted func(Instance)

	// OnActivated runs when a keep-alive boundary re-inserts a cached instance.
	OnActivated func(Instance)

	// OnDeactivated runs when a keep-alive boundary caches the instance
	// instead of destroying it.
	OnDeactivated func(Instance)

	// OnUpdated runs after a pass that handed an already mounted instance
	// a new invocation.
	OnUpdated func(Instance)
}

// ComponentOption configures a component invocation.
type ComponentOption func(*VNode)

// WithHooks attaches lifecycle hooks.
func WithHooks(h *Hooks) ComponentOption {
	return func(n *VNode) { n.Hooks = h }
}

// WithRef attaches an instance-capturing handle.
func WithRef(ref *vango.Ref[Instance]) ComponentOption {
	return func(n *VNode) { n.Ref = ref }
}

// WithKey sets the reconciliation key.
func WithKey(key string) ComponentOption {
	return func(n *VNode) { n.Key = key }
}

// Component describes an invocation of def with props.
func Component(def *Definition, props Props, opts ...ComponentOption) *VNode {
	node := &VNode{
		Kind:  KindComponent,
		Def:   def,
		Props: props,
	}
	if node.Props == nil {
		node.Props = Props{}
	}
	for _, opt := range opts {
		opt(node)
	}
	return node
}

// KeepAliveMaxProp is the prop holding a keep-alive boundary's cache bound.
const KeepAliveMaxProp = "max"

// KeepAlive wraps a component invocation so the instance it produces is
// cached instead of destroyed when the boundary later renders a different
// component, and reused when the cached component is rendered again.
// max bounds the cache (least recently used first); 0 means unbounded.
func KeepAlive(child *VNode, max int) *VNode {
	node := &VNode{
		Kind:  KindKeepAlive,
		Props: Props{KeepAliveMaxProp: max},
	}
	if child != nil {
		node.Children = []*VNode{child}
	}
	return node
}

// KeepAliveMax returns the cache bound of a keep-alive node.
func (v *VNode) KeepAliveMax() int {
	if v == nil || v.Kind != KindKeepAlive {
		return 0
	}
	switch n := v.Props[KeepAliveMaxProp].(type) {
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}
