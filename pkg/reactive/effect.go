package reactive

import (
	"sync"
	"sync/atomic"
)

// MaxPropagationDepth bounds synchronous re-entrant propagation. An effect
// that would run deeper than this (typically an effect writing a signal it
// also reads, with a value that never settles) is skipped and logged.
const MaxPropagationDepth = 100

// Effect represents a reactive side effect that runs when its dependencies
// change. Effects run immediately when created and re-run synchronously,
// on the writer's call stack, whenever a signal or computed value read
// during their last run changes.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals/computed values read during the last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect.
	owner *Owner

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool

	// name labels the effect in logs.
	name string
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the label given with EffectName, if any.
func (e *Effect) Name() string {
	return e.name
}

// Disposed reports whether the effect has been disposed.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

// run executes the effect function, rebuilding its source list.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	defer exitPropagation()
	if !enterPropagation() {
		logger().Error("reactive: propagation depth exceeded, effect skipped",
			"effect_id", e.id,
			"effect", e.name,
			"max_depth", MaxPropagationDepth)
		return
	}

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}

	e.clearSources()

	oldListener := setCurrentListener(e)
	defer setCurrentListener(oldListener)

	e.cleanup = e.fn()
}

// clearSources unsubscribes from every source of the last run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

// addSource records a source dependency.
// Called by signals when they are read during effect execution.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose stops the effect: it unsubscribes from all sources and runs the
// last cleanup. Disposing twice is a no-op; a disposed effect never runs
// again.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}

	e.clearSources()
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// EffectName labels the effect for logging.
func EffectName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// CreateEffect creates and runs a new effect within the current owner
// context. If fn returns a Cleanup, it is called before the next run and
// when the effect is disposed.
//
// Example:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	for _, opt := range opts {
		opt(e)
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()

	return e
}

// Watch runs fn as an effect and returns its dispose function.
func Watch(fn func(), opts ...EffectOption) (dispose func()) {
	e := CreateEffect(func() Cleanup {
		fn()
		return nil
	}, opts...)
	return e.Dispose
}
