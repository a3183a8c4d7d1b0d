package vango

import "sync"

// Scope holds ambient values for one position in a render tree.
// Lookups walk from a scope to its parents, so a value provided on a scope
// is visible to that scope and every scope created beneath it, and to
// nothing else.
type Scope struct {
	id     uint64
	parent *Scope

	values   map[any]any
	valuesMu sync.RWMutex
}

// NewScope creates a root scope.
func NewScope() *Scope {
	return &Scope{id: nextID()}
}

// Child creates a scope nested under s.
func (s *Scope) Child() *Scope {
	return &Scope{id: nextID(), parent: s}
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Provide sets a value on this scope, replacing any earlier value for key.
func (s *Scope) Provide(key, value any) {
	s.valuesMu.Lock()
	defer s.valuesMu.Unlock()

	if s.values == nil {
		s.values = make(map[any]any)
	}
	s.values[key] = value
}

// Revoke removes a value provided on this scope. Values on parents are
// unaffected and become visible again.
func (s *Scope) Revoke(key any) {
	s.valuesMu.Lock()
	defer s.valuesMu.Unlock()
	delete(s.values, key)
}

// Lookup retrieves a value from this scope or the nearest parent that
// provides it.
func (s *Scope) Lookup(key any) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// Context is a typed key for scope values.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//
//	ThemeContext.Provide(scope, "dark")
//	theme := ThemeContext.Use(scope.Child()) // "dark"
type Context[T any] struct {
	// key uniquely identifies this context in scope value maps
	key any

	// defaultValue is returned when no scope provides the context
	defaultValue T

	name string
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{defaultValue: defaultValue}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// CreateNamedContext is CreateContext with a name used in debug output.
func CreateNamedContext[T any](name string, defaultValue T) *Context[T] {
	ctx := CreateContext(defaultValue)
	ctx.name = name
	return ctx
}

// Name returns the debug name of the context.
func (c *Context[T]) Name() string {
	return c.name
}

// Provide publishes value on scope for scope and its descendants.
func (c *Context[T]) Provide(scope *Scope, value T) {
	if scope == nil {
		return
	}
	scope.Provide(c.key, value)
}

// Use retrieves the value from the nearest scope providing this context,
// or the default value when none does.
func (c *Context[T]) Use(scope *Scope) T {
	v, ok := c.Lookup(scope)
	if !ok {
		return c.defaultValue
	}
	return v
}

// Lookup is Use that also reports whether a provider was found.
func (c *Context[T]) Lookup(scope *Scope) (T, bool) {
	if scope == nil {
		return c.defaultValue, false
	}
	value, ok := scope.Lookup(c.key)
	if !ok {
		return c.defaultValue, false
	}
	typed, ok := value.(T)
	if !ok {
		return c.defaultValue, false
	}
	return typed, true
}

// Revoke removes this context's value from scope.
func (c *Context[T]) Revoke(scope *Scope) {
	if scope == nil {
		return
	}
	scope.Revoke(c.key)
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
