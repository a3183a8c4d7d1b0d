// Package vango provides the reactive core and ambient scopes used by
// routeview.
//
// Dependencies are tracked automatically at runtime: reading a Signal while
// a Listener is active (a component render, a Memo computation) subscribes
// that listener to the signal's changes.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Memo[T] is a cached derived computation:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 })
//	value := doubled.Get()  // Recomputes only if dependencies changed
//
// Ref[T] is a plain mutable handle, used by the mount runtime to hand a
// mounted component instance back to whoever rendered it.
//
// # Scopes
//
// Scope carries ambient values down a render tree. A Scope is created for
// every component instance as a child of the scope of the component that
// rendered it, so a value provided by an instance is visible to its own
// output subtree only:
//
//	var Depth = CreateContext(0)
//
//	child := parent.Child()
//	Depth.Provide(child, Depth.Use(parent)+1)
//
// Scopes are passed explicitly; there is no process-wide current scope.
//
// # Thread Safety
//
// Signals and memos are safe for concurrent use. The listener tracking
// context is per-goroutine.
package vango
