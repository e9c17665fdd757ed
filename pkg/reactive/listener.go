package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects and computed values implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// Effects re-run immediately; computed values invalidate.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for subscriber deduplication.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// tracker is a listener that records the sources it reads.
type tracker interface {
	Listener
	addSource(source *signalBase)
}
