package vango

import (
	"sync"
	"sync/atomic"
)

// Computation is a Listener that re-tracks its dependencies on every Run
// and invokes onDirty when any of them changes. Component instances use one
// to subscribe their render function to the signals and memos it reads.
type Computation struct {
	id      uint64
	onDirty func()

	sources   []*signalBase
	sourcesMu sync.Mutex

	disposed atomic.Bool
}

// NewComputation creates a computation that calls onDirty on invalidation.
func NewComputation(onDirty func()) *Computation {
	return &Computation{
		id:      nextID(),
		onDirty: onDirty,
	}
}

// Run executes fn with the computation as the current listener. Sources
// tracked by a previous Run are released first.
func (c *Computation) Run(fn func()) {
	c.release()
	if c.disposed.Load() {
		fn()
		return
	}
	WithListener(c, fn)
}

// MarkDirty implements Listener.
func (c *Computation) MarkDirty() {
	if c.disposed.Load() || c.onDirty == nil {
		return
	}
	c.onDirty()
}

// ID implements Listener.
func (c *Computation) ID() uint64 {
	return c.id
}

// Dispose releases all sources; later notifications are ignored.
func (c *Computation) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.release()
}

func (c *Computation) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

func (c *Computation) release() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(c)
	}
}

var _ sourceTracker = (*Computation)(nil)
