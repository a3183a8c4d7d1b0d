package vango

// Listener is anything that can be notified when a dependency changes.
// This interface is implemented by component instances and memos.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For component instances, this schedules a re-render.
	// For memos, this invalidates the cached value.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}
