package vango

// Batch groups multiple signal updates into a single notification phase.
// All updates within fn are collected, deduplicated, and every affected
// listener is notified once when the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    route.Set(next)
//	    slot.Set("sidebar")
//	})
//	// Views re-render once with both changes
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}
