// Package mount is the rendering and mounting runtime.
//
// A Runtime turns a render description (a vdom.VNode tree containing
// component invocations) into a tree of live component instances and an
// expanded description containing only elements, text and raw HTML.
//
// Instances are matched to invocations by tree position (and Key, when
// set) within the output of the instance that rendered them. An invocation
// at the same position with the same Definition reuses the existing
// instance; anything else creates a new one and unmounts the old.
//
// Each instance gets its own vango.Scope, created as a child of the scope
// of the instance that rendered it, and renders inside a vango.Computation
// so signals and memos it reads mark it dirty. Flush re-runs the pass,
// re-rendering dirty instances and instances whose props changed.
//
// Lifecycle hooks (vdom.Hooks) run after a pass completes: unmount and
// deactivate hooks first, then activate and mount hooks, children before
// parents.
//
// A vdom.KeepAlive boundary caches the instances it has rendered, keyed by
// Definition, and reactivates a cached instance instead of building a new
// one when that component is rendered again.
package mount
