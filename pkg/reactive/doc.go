// Package reactive provides the signal engine for ucom components.
//
// Dependencies are tracked automatically at runtime: reading a signal while
// an effect or computed value is running subscribes it to that signal's
// changes.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get() // Read (subscribes the running effect)
//	count.Set(5)         // Write (re-runs subscribers synchronously)
//
// Computed[T] is a cached derived value:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//
// Effect re-runs whenever anything it read changes:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//	defer e.Dispose()
//
// # Propagation
//
// Writes propagate synchronously and re-entrantly: Set returns only after
// every dependent effect has run. There is no topological ordering, so an
// effect reachable through two paths (a diamond) may run twice for a single
// write. Batch opts into deduplicated notification for a group of writes.
//
// # Ownership
//
// Effects created while an Owner is current belong to it. Disposing the
// Owner disposes its children, its effects and its cleanup callbacks.
package reactive
