package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a cached derived value that tracks its own dependencies.
// When a dependency changes the cached value is invalidated and subscribers
// are notified; the computation runs again lazily on the next read.
//
// A Computed can be read and subscribed to like a Signal, so derived values
// can be chained.
type Computed[T any] struct {
	base signalBase

	// compute produces the value.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	valid atomic.Bool

	// sources are the signals/computed values read by the last computation.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// computing guards against a computation reading itself.
	computing atomic.Bool
}

// NewComputed creates a computed value. fn is not run until the first read.
func NewComputed[T any](fn func() T) *Computed[T] {
	return &Computed[T]{
		base: signalBase{
			id: nextID(),
		},
		compute: fn,
	}
}

// Get returns the value, recomputing it if a dependency changed, and
// subscribes the current listener.
func (c *Computed[T]) Get() T {
	c.base.track()
	return c.Peek()
}

// Peek returns the value without subscribing. It still recomputes an
// invalid value.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements the Listener interface.
func (c *Computed[T]) MarkDirty() {
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this computed value.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// recompute runs the computation with c as the current listener.
func (c *Computed[T]) recompute() {
	if c.computing.Swap(true) {
		// Circular read; keep the stale value.
		return
	}
	defer c.computing.Store(false)

	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()
	for _, source := range sources {
		source.unsubscribe(c)
	}

	old := setCurrentListener(c)
	defer setCurrentListener(old)

	value := c.compute()

	c.valueMu.Lock()
	c.value = value
	c.valueMu.Unlock()

	c.valid.Store(true)
}

var _ tracker = (*Computed[int])(nil)
var _ tracker = (*Effect)(nil)
