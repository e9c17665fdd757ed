package reactive

// Batch groups signal writes into a single notification phase.
// Listeners notified inside fn are collected, deduplicated by ID and
// notified once when the outermost batch completes.
//
// Without Batch, every write propagates immediately; a listener reachable
// from several written signals runs once per write.
//
// Example:
//
//	Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	}) // effects reading both run once
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

// Untracked runs fn without tracking signal reads as dependencies.
//
// Example:
//
//	Untracked(func() {
//	    fmt.Println("Current value:", count.Get())
//	})
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
